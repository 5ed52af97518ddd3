package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"medscribe/internal/app/repository"
	"medscribe/internal/config"
)

var configPath string

func init() {
	Cmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the configuration file")
}

// Cmd represents the migrate command
var Cmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Create or update the database schema

- Applies the model definitions for users, transcriptions, translations and audit logs
- Safe to run repeatedly, existing data is preserved`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnv(); err != nil {
			return err
		}
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		db, err := repository.Open(cfg.Database)
		if err != nil {
			return err
		}
		if err := repository.AutoMigrate(db); err != nil {
			return err
		}

		fmt.Println("database schema is up to date")
		return nil
	},
}
