package cmd

import (
	"github.com/montoya-e/laked/internal/core/services"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var LoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the warehouse table from the datalake",
	Long: `Runs one load pass: reads the datalake's raw collection, infers the
column types, creates the warehouse table if needed and upserts every row.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		stackService, err := loadStackService()
		if err != nil {
			return err
		}

		ctx := cmd.Context()

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

		warehouse := services.NewWarehouseService(
			documents,
			db,
			viper.GetString("mysql.table"),
			viper.GetString("mysql.dedupe_key"),
			nil,
		)
		report, err := warehouse.Load(ctx)
		if err != nil {
			return err
		}

		cmd.Printf("loaded %d rows (%d columns) into %s\n", report.Rows, report.Columns, report.Table)
		return nil
	},
}
