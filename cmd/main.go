package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"maintenance_dashboard/internal/backend"
	"maintenance_dashboard/internal/handlers"
	"maintenance_dashboard/internal/logger"
	"maintenance_dashboard/internal/repository"
	"maintenance_dashboard/internal/repository/db"
	"maintenance_dashboard/internal/server"
	"maintenance_dashboard/internal/service"
	"maintenance_dashboard/internal/visualizer"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

// @title                      Maintenance Dashboard
// @version                    1.0
// @description                Server rendered dashboard and operator actions over the maintenance IA backend.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string
	v := viper.New()

	root := &cobra.Command{
		Use:          "dashboard",
		Short:        "Maintenance dashboard over the IA backend",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return loadConfig(v, configFile)
		},
		RunE: func(*cobra.Command, []string) error {
			return runServe(v)
		},
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default configs/config.yml)")
	root.PersistentFlags().String("port", "", "HTTP port")
	root.PersistentFlags().String("backend", "", "backend base URL")
	_ = v.BindPFlag("port", root.PersistentFlags().Lookup("port"))
	_ = v.BindPFlag("backend.base_url", root.PersistentFlags().Lookup("backend"))

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the dashboard over HTTP",
			RunE: func(*cobra.Command, []string) error {
				return runServe(v)
			},
		},
		&cobra.Command{
			Use:   "term",
			Short: "Interactive terminal against the backend",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runTermCmd(cmd, v)
			},
		},
		newOperatorCmd(v),
	)
	return root
}

func runServe(v *viper.Viper) error {
	if err := validateSigningKey(v.GetString("auth.signing_key")); err != nil {
		return err
	}
	log := logger.Get(v.GetString("log.level"))
	watchLogLevel(v, log)

	sqlDB, err := openDB(v, log)
	if err != nil {
		log.Errorw("failed to init sqlite", "err", err)
		return err
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	api, err := backend.NewClient(v.GetString("backend.base_url"), v.GetDuration("backend.timeout"), log)
	if err != nil {
		log.Errorw("invalid backend config", "err", err)
		return err
	}

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var field *visualizer.Field
	if v.GetBool("visualizer.enabled") {
		field = visualizer.New(visualizerConfig(v), nil)
		go field.Run(ctx, v.GetDuration("visualizer.frame_interval"))
	}

	// wire dependencies
	repos := repository.NewRepository(sqlDB)
	services := service.NewService(repos, api, field, serviceConfig(v), log)
	apiHandler := handlers.NewHandler(services, log)

	srv := &server.Server{}
	runHTTPServer(srv, v.GetString("port"), apiHandler, server.Config{WriteTimeout: v.GetDuration("server.write_timeout")}, log)
	log.Infow("dashboard_started", "port", v.GetString("port"), "backend", v.GetString("backend.base_url"))

	return waitForShutdown(cancel, srv, log)
}

func runTermCmd(cmd *cobra.Command, v *viper.Viper) error {
	log := logger.Get(v.GetString("log.level"))
	api, err := backend.NewClient(v.GetString("backend.base_url"), v.GetDuration("backend.timeout"), log)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	term := service.NewTerminalService(api, nil, v.GetInt("terminal.history"), 0)
	return runTerm(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), term)
}

// openDB initializes the SQLite database using configuration.
func openDB(v *viper.Viper, log *logger.Logger) (*sql.DB, error) {
	dbPath := v.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "dashboard.db")
		dbPath = "dashboard.db"
	}
	return db.InitDB(dbPath)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, cfg server.Config, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes(), cfg); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
		return err
	}
	return nil
}
