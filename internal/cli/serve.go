package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/incidents/internal/logging"
	"github.com/ppiankov/incidents/internal/sample"
	"github.com/ppiankov/incidents/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve draws and records over HTTP",
	Long: `Serve exposes the dataset as a JSON API:

  GET /api/stats?race=...&armed=...        matched and total counts
  GET /api/groups?race=...&armed=...       matching groups
  GET /api/draw?race=...&armed=...&tier=... 303 to a drawn record, 204 on no result
  GET /api/incidents/{id}                  one detail record

Example:
  incidents serve --addr :8080
  curl -L 'localhost:8080/api/draw?race=black&armed=unarmed'`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "listen address (default from config)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	idx, err := loadIndex(appConfig)
	if err != nil {
		return err
	}

	logger := logging.New("server")
	logger.Info("incidents starting",
		"version", version,
		"addr", appConfig.Server.Addr,
		"records", idx.TotalCount(),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(idx, sample.NewSampler(idx, nil), newFetcher(appConfig), configPolicy(appConfig), logger)
	if err := srv.Run(ctx, appConfig.Server); err != nil {
		return err
	}

	logger.Info("incidents stopped")
	return nil
}
