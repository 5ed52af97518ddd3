package cleanup

import (
	"fmt"

	"github.com/spf13/cobra"

	"medscribe/internal/app"
)

var configPath string

func init() {
	Cmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the configuration file")
}

// Cmd represents the cleanup command
var Cmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Apply the data retention policy",
	Long: `Apply the data retention policy

- Deletes transcriptions and translations older than the configured retention windows
- Removes their uploaded audio and aged speech artifacts from storage
- Records every removal in the audit log`,
	RunE: func(cmd *cobra.Command, args []string) error {
		job, shutdown, err := app.InitializeCleanup(configPath)
		if err != nil {
			return err
		}
		defer shutdown()

		summary := job.Cleaner.Run(cmd.Context())

		fmt.Printf("Cleaned up %d transcriptions, %d translations, and %d files\n",
			summary.TranscriptionsDeleted, summary.TranslationsDeleted, summary.FilesDeleted)
		if summary.AuditLogsDeleted > 0 {
			fmt.Printf("Purged %d expired audit log entries\n", summary.AuditLogsDeleted)
		}
		if len(summary.Errors) > 0 {
			fmt.Printf("Errors occurred: %d\n", len(summary.Errors))
			for _, msg := range summary.Errors {
				fmt.Printf("  - %s\n", msg)
			}
		}
		return nil
	},
}
