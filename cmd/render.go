package cmd

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/montoya-e/laked/internal/core/services"
	"github.com/spf13/cobra"
)

var renderOutputDir string

var RenderCmd = &cobra.Command{
	Use:   "render [templates...]",
	Short: "Render stack templates",
	Long: `Renders *.stack_template files with the stack descriptor as template
data, e.g. database config files or .env files. Without arguments every
template under the working directory is rendered.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		stackService, err := loadStackService()
		if err != nil {
			return err
		}

		templateFiles := args
		if len(templateFiles) == 0 {
			templateFiles, err = findStackTemplates(stackService.GetCwd())
			if err != nil {
				return err
			}
		}
		if len(templateFiles) == 0 {
			return fmt.Errorf("no *.stack_template files found in %s", stackService.GetCwd())
		}

		renderer := services.NewTemplateRenderer()
		data := map[string]interface{}{
			"Stack": stackService.GetCurrent(),
		}

		if err := renderer.RenderStackTemplateFiles(stackService.GetCwd(), templateFiles, data, renderOutputDir); err != nil {
			return err
		}

		cmd.Printf("rendered %d template(s)\n", len(templateFiles))
		return nil
	},
}

func findStackTemplates(base string) ([]string, error) {
	var templateFiles []string
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".stack_template") {
			return nil
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		templateFiles = append(templateFiles, rel)
		return nil
	})
	return templateFiles, err
}

func init() {
	RenderCmd.Flags().StringVarP(&renderOutputDir, "output", "o", "", "Output directory for rendered files")
}
