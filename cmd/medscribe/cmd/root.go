package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"medscribe/cmd/medscribe/cmd/batch"
	"medscribe/cmd/medscribe/cmd/cleanup"
	"medscribe/cmd/medscribe/cmd/migrate"
	"medscribe/cmd/medscribe/cmd/serve"
	"medscribe/cmd/medscribe/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "medscribe",
	Short: "Medical transcription backend and batch tooling",
	Long: `Medical transcription backend and batch tooling.
- serve runs the REST API for transcription, AI analysis, translation and speech synthesis
- batch transcribes a directory of recordings without going through the API
- cleanup applies the data retention policy to stored records and audio files`,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(migrate.Cmd)
	rootCmd.AddCommand(cleanup.Cmd)
	rootCmd.AddCommand(batch.Cmd)
	rootCmd.AddCommand(version.Cmd)
}
