package main

// @title           laked
// @version         0.1.0
// @description     laked validates the database stack descriptor and runs the GPS telemetry pipeline from the raw object store into the datalake and warehouse.

import (
	"os"

	"github.com/montoya-e/laked/cmd"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
