package cmd

import (
	"context"
	"time"

	"github.com/montoya-e/laked/internal/core/services"
	"github.com/spf13/cobra"
)

var waitTimeout uint

var WaitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait until the declared service ports accept connections",
	Long: `Blocks until every host port the stack descriptor publishes accepts
tcp connections, i.e. until the databases are up.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		stackService, err := loadStackService()
		if err != nil {
			return err
		}

		portService := services.NewPortService()
		ports, err := portService.SyncStack(stackService.GetCurrent())
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(waitTimeout)*time.Second)
		defer cancel()

		if err := portService.WaitAllOpen(ctx); err != nil {
			return err
		}

		cmd.Printf("all %d declared ports are open\n", len(ports))
		return nil
	},
}

func init() {
	WaitCmd.Flags().UintVar(&waitTimeout, "timeout", 120, "Wait timeout in seconds")
}
