package services

import (
	"bytes"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
)

// TemplateRenderer renders *.stack_template files, e.g. database
// config files or .env files derived from the stack descriptor.
type TemplateRenderer struct{}

func NewTemplateRenderer() *TemplateRenderer {
	return &TemplateRenderer{}
}

func (tr *TemplateRenderer) RenderTemplate(templateBody string, data interface{}) (string, error) {
	tmpl, err := template.New("stack_template").Funcs(sprig.TxtFuncMap()).Parse(templateBody)
	if err != nil {
		return "", err
	}

	var tpl bytes.Buffer
	err = tmpl.Execute(&tpl, data)

	if err != nil {
		return "", err
	}

	return tpl.String(), err
}

func (tr *TemplateRenderer) RenderStackTemplateFiles(templateBase string, templateFiles []string, data interface{}, outputDir string) error {
	for _, templateFile := range templateFiles {
		tpl := template.New(filepath.Base(templateFile)).Funcs(sprig.TxtFuncMap())
		templates, err := tpl.ParseFiles(path.Join(templateBase, templateFile))
		if err != nil {
			return err
		}

		outputFileName := strings.TrimSuffix(templateFile, ".stack_template")

		if outputDir != "" {
			outputFileName = filepath.Join(outputDir, outputFileName)
		}

		outputDirPath := filepath.Dir(outputFileName)
		if err := os.MkdirAll(outputDirPath, os.ModePerm); err != nil {
			return err
		}

		outputFile, err := os.Create(outputFileName)
		if err != nil {
			return err
		}

		err = templates.Execute(outputFile, data)
		outputFile.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
