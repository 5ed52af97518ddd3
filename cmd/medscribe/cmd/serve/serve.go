package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"medscribe/internal/app"
)

var configPath string

func init() {
	Cmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the configuration file")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST API server",
	Long: `Run the REST API server

- Serves authentication, transcription, translation, speech and monitoring endpoints under /api
- Swagger documentation is mounted at /swagger/index.html when enabled
- Stops accepting connections on SIGINT or SIGTERM and drains in-flight requests`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, shutdown, err := app.InitializeApplication(configPath)
		if err != nil {
			return err
		}
		defer shutdown()

		application.Server.Start()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return application.Server.Shutdown(ctx)
	},
}
