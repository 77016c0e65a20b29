package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/montoya-e/laked/internal/core/domain"
	"github.com/montoya-e/laked/internal/core/services"
	"github.com/montoya-e/laked/internal/core/services/registry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var resolveImages bool
var resolveTimeout uint

var ValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the stack descriptor",
	Long: `Checks the stack file: port syntax and host port collisions across
services, credential environment variables, volume host path syntax and
image reference syntax. With --resolve-images every image reference is
also resolved against the configured registry; unresolvable images are
reported as warnings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		stackService, err := loadStackService()
		if err != nil {
			return err
		}

		validator := services.NewStackValidator()
		if resolveImages {
			client := registry.NewOciClient(
				viper.GetString("registry.host"),
				viper.GetString("registry.user"),
				viper.GetString("registry.password"),
			)
			validator = services.NewStackValidatorWithRegistry(client)
		}

		findings := validator.Validate(stackService.GetCurrent())

		if resolveImages {
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(resolveTimeout)*time.Second)
			findings = append(findings, validator.ResolveImages(ctx, stackService.GetCurrent())...)
			cancel()
		}

		for _, finding := range findings {
			location := finding.Service
			if finding.Field != "" {
				location += "." + finding.Field
			}
			cmd.Printf("%s: %s: %s\n", finding.Severity, location, finding.Message)
		}

		if domain.HasErrors(findings) {
			return fmt.Errorf("stack file %s is invalid", stackService.GetPath())
		}

		cmd.Printf("%s is valid (%d services)\n", stackService.GetPath(), len(stackService.GetCurrent().Services))
		return nil
	},
}

func init() {
	ValidateCmd.Flags().BoolVar(&resolveImages, "resolve-images", false, "Also resolve image references against the registry")
	ValidateCmd.Flags().UintVar(&resolveTimeout, "timeout", 30, "Image resolution timeout in seconds")
}
