package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/montoya-e/laked/internal/core/services/registry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var imagesTimeout uint

var ImagesCmd = &cobra.Command{
	Use:   "images",
	Short: "Check that every image reference resolves",
	Long: `Resolves every service's image reference against the configured
registry and prints the manifest digests. Fails when any image is not
retrievable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		stackService, err := loadStackService()
		if err != nil {
			return err
		}

		host := viper.GetString("registry.host")
		user := viper.GetString("registry.user")
		password := viper.GetString("registry.password")
		client := registry.NewOciClient(host, user, password)

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(imagesTimeout)*time.Second)
		defer cancel()

		var failed int
		for name, spec := range stackService.GetCurrent().Services {
			descriptor, err := client.Resolve(ctx, spec.Image)
			if err != nil {
				failed++
				cmd.Printf("%s: %s: %v\n", name, spec.Image, err)
				continue
			}
			cmd.Printf("%s: %s resolves to %s\n", name, spec.Image, descriptor.Digest)
		}

		if failed > 0 {
			return fmt.Errorf("%d image reference(s) did not resolve", failed)
		}
		return nil
	},
}

func init() {
	ImagesCmd.Flags().UintVar(&imagesTimeout, "timeout", 30, "Resolution timeout in seconds")
}
