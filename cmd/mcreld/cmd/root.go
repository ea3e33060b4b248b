package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/materials-commons/mcrel/pkg/clog"
	"github.com/materials-commons/mcrel/pkg/config"
	"github.com/materials-commons/mcrel/pkg/mcapi"
	"github.com/materials-commons/mcrel/pkg/mcdb"
	"github.com/materials-commons/mcrel/pkg/mcdb/stor"
	"github.com/spf13/cobra"
)

var (
	envFile string
	seedDB  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mcreld",
	Short: "Serve posts, comments and users for mcrel clients",
	Long: `Serve posts, comments and users over HTTP in the load and save
envelopes the mcrel model layer reads.`,
	Run: func(cmd *cobra.Command, args []string) {
		config.SetConfig(config.NewDotenvConfig(envFile))
		if err := config.Load(); err != nil {
			log.Fatalf("Unable to load %s: %s", envFile, err)
		}

		if err := Run(cmd.Context(), config.GetSettings()); err != nil {
			log.Fatalf("mcreld: %s", err)
		}
	},
}

func Run(ctx context.Context, settings config.Settings) error {
	if err := clog.SetLevels(settings.LogLevels); err != nil {
		return err
	}

	db := mcdb.MustConnectToDB(settings.DBDriver, settings.DBDSN)
	if err := mcdb.RunMigrations(db); err != nil {
		return err
	}

	stors := stor.NewGormStors(db, settings.TxRetry)
	if seedDB {
		if err := seed(stors); err != nil {
			return err
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	mcapi.SetupRoutes(e, mcapi.RouteOpts{
		Stors:         stors,
		MinBodyLength: settings.MinBodyLength,
	})

	go shutdownOnSignal(ctx, e)

	clog.Global().Infof("Listening on %s", settings.Listen)
	if err := e.Start(settings.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func shutdownOnSignal(ctx context.Context, e *echo.Echo) {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	clog.Global().Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		clog.Global().Errorf("Shutdown failed: %s", err)
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&envFile, "env-file", "e", "", "dotenv file to load settings from")
	rootCmd.Flags().BoolVar(&seedDB, "seed", false, "create example users, posts and comments at startup")
}
