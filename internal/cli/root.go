package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	port       string
	configPath string
	dataDir    string
)

// Execute runs the CLI.
func Execute() error {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envPort := os.Getenv("PORT")
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:           "exams",
		Short:         "College exam system: accounts, subjects, exams and scores kept in flat files",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&port, "port", envPort, "port to listen on (start)")
	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVar(&dataDir, "data-dir", os.Getenv("DATA_DIR"), "directory holding the .txt resources (overrides config)")
	cmd.AddCommand(NewStartCmd(&port))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	cmd.AddCommand(NewImportExamsCmd())
	cmd.AddCommand(NewAccountCmd())
	cmd.AddCommand(NewSubjectCmd())
	cmd.AddCommand(NewExamCmd())
	cmd.AddCommand(NewLoginCmd())
	cmd.AddCommand(NewTakeCmd())
	cmd.AddCommand(NewScoresCmd())
	return cmd
}
