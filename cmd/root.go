package cmd

import (
	"os"

	logger "github.com/montoya-e/laked/internal/core/services/log"
	"github.com/montoya-e/laked/internal/utils/env"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var envPath string
var cwd string
var stackFilePath string
var loggerFormat string

var RootCmd = &cobra.Command{
	Use:   "laked",
	Short: "Lake Daemon that manages the GPS telemetry datalake and warehouse",
	Long: `A daemon and cli around a declarative database stack descriptor:
it validates the descriptor, waits for the declared services, ingests raw
telemetry objects into the datalake and loads the typed warehouse table.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Usage()
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.NewLogger(loggerFormat)
		env.AttemptReadLocalEnvironment(envPath)
	},
}

func init() {

	viper.SetDefault("registry.host", "registry-1.docker.io")
	viper.SetDefault("s3.bucket", "de-tech-assessment-2022")
	viper.SetDefault("s3.prefix", "data/")
	viper.SetDefault("s3.endpoint", "s3.amazonaws.com")
	viper.SetDefault("mongo.database", "gps")
	viper.SetDefault("mongo.collection", "raw")
	viper.SetDefault("mysql.table", "gps_data")
	viper.SetDefault("mysql.dedupe_key", "event_uid")

	cobra.OnInitialize(initConfig)

	c, _ := os.Getwd()

	RootCmd.PersistentFlags().StringVarP(&cwd, "cwd", "", c, "Working directory holding the stack file")
	RootCmd.PersistentFlags().StringVarP(&stackFilePath, "stack-file", "f", "docker-compose.yml", "Path to the stack descriptor")
	RootCmd.PersistentFlags().StringVarP(&loggerFormat, "log-format", "", "cli", "Log format (structured, cli)")
	RootCmd.PersistentFlags().StringVarP(&envPath, "env-file", "e", "./.env", "Path to environment file (.env)")

	RootCmd.AddCommand(VersionCmd)
	RootCmd.AddCommand(ValidateCmd)
	RootCmd.AddCommand(ImagesCmd)
	RootCmd.AddCommand(WaitCmd)
	RootCmd.AddCommand(RenderCmd)
	RootCmd.AddCommand(IngestCmd)
	RootCmd.AddCommand(LoadCmd)
	RootCmd.AddCommand(PipelineCmd)
	RootCmd.AddCommand(ServeCommand)
}

func initConfig() {
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)

	viper.SetConfigType("yaml")
	viper.SetConfigName(".laked")

	viper.AddConfigPath(home)

	viper.AutomaticEnv()
	viper.SafeWriteConfig()
	viper.ReadInConfig()
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
