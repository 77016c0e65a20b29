package cmd

import (
	"github.com/montoya-e/laked/internal/core/services"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var PipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run the full pipeline: ingest then load",
	RunE: func(cmd *cobra.Command, args []string) error {
		stackService, err := loadStackService()
		if err != nil {
			return err
		}

		ctx := cmd.Context()

		objects, err := buildObjectStore()
		if err != nil {
			return err
		}

		documents, err := buildDocumentStore(ctx, stackService)
		if err != nil {
			return err
		}
		defer documents.Close(ctx)

		db, err := buildWarehouseDB(stackService)
		if err != nil {
			return err
		}
		defer db.Close()

		datalake := services.NewDatalakeService(objects, documents, nil)
		ingestReport, err := datalake.Ingest(ctx)
		if err != nil {
			return err
		}
		cmd.Printf("ingested %d, skipped %d, failed %d (of %d objects)\n",
			ingestReport.Ingested, ingestReport.Skipped, ingestReport.Failed, ingestReport.Listed)

		warehouse := services.NewWarehouseService(
			documents,
			db,
			viper.GetString("mysql.table"),
			viper.GetString("mysql.dedupe_key"),
			nil,
		)
		loadReport, err := warehouse.Load(ctx)
		if err != nil {
			return err
		}
		cmd.Printf("loaded %d rows (%d columns) into %s\n", loadReport.Rows, loadReport.Columns, loadReport.Table)

		return nil
	},
}
