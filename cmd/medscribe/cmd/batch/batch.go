package batch

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"medscribe/internal/app"
	"medscribe/internal/app/converter"
)

var (
	configPath string
	outputDir  string
	extension  string
	language   string
	userID     uint
	limit      int
	parallel   int
	progress   bool
)

func init() {
	Cmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the configuration file")
	Cmd.Flags().StringVarP(&outputDir, "output", "o", "", "directory for transcript files, defaults to the audio directory")
	Cmd.Flags().StringVarP(&extension, "extension", "e", "mp3", "audio file extension to pick up")
	Cmd.Flags().StringVarP(&language, "language", "l", "", "spoken language hint passed to the recognizer")
	Cmd.Flags().UintVarP(&userID, "user-id", "u", 0, "also store transcripts in the database under this user ID")
	Cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of files to process, 0 means all")
	Cmd.Flags().IntVarP(&parallel, "parallel", "p", 1, "number of files to transcribe concurrently")
	Cmd.Flags().BoolVar(&progress, "progress", false, "show a progress bar even when not attached to a terminal")
}

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch <audio-dir>",
	Short: "Transcribe a directory of audio files",
	Long: `Transcribe a directory of audio files

- Picks up every matching audio file in the directory, oldest first
- Writes a .txt transcript next to each file and skips files that already have one
- With --user-id the transcripts are also stored in the database`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		job, shutdown, err := app.InitializeBatch(configPath)
		if err != nil {
			return err
		}
		defer shutdown()

		result, err := job.Converter.Run(cmd.Context(), converter.Options{
			InputDir:  args[0],
			OutputDir: outputDir,
			Extension: extension,
			Language:  language,
			UserID:    userID,
			Limit:     limit,
			Parallel:  parallel,
			Progress: converter.ProgressConfig{
				Enabled: converter.ShouldShowProgress(progress),
				Writer:  os.Stderr,
			},
		})
		if err != nil {
			return err
		}

		fmt.Printf("Transcribed %d files, skipped %d, failed %d\n",
			result.Processed, result.Skipped, result.Failed)
		return nil
	},
}
