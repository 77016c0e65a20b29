package cmd

import (
	"github.com/montoya-e/laked/internal/core/services"
	"github.com/spf13/cobra"
)

var IngestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest raw objects into the datalake",
	Long: `Runs one ingestion pass: lists the JSON objects under the configured
bucket prefix and upserts each one into the datalake's raw collection.`,
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

		datalake := services.NewDatalakeService(objects, documents, nil)
		report, err := datalake.Ingest(ctx)
		if err != nil {
			return err
		}

		cmd.Printf("ingested %d, skipped %d, failed %d (of %d objects)\n",
			report.Ingested, report.Skipped, report.Failed, report.Listed)
		return nil
	},
}
