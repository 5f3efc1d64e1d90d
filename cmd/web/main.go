package main

import (
	"fmt"
	"os"

	"github.com/de-tools/request-atlas/pkg/server"
	"github.com/de-tools/request-atlas/pkg/services/config"
	"github.com/de-tools/request-atlas/pkg/services/report"
	"github.com/de-tools/request-atlas/pkg/store"
	reportsql "github.com/de-tools/request-atlas/pkg/store/sql"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Request Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a YAML config file (ATLAS_* environment variables override it)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	logger, err := cfg.Log.NewLogger(os.Stdout)
	if err != nil {
		return err
	}
	ctx := logger.WithContext(cmd.Context())

	location, err := cfg.Report.Location()
	if err != nil {
		return err
	}

	if cfg.Database.ServiceFile != "" {
		registry, err := config.NewRegistry(cfg.Database.ServiceFile)
		if err != nil {
			return fmt.Errorf("failed to load service file: %w", err)
		}
		profiles, _ := registry.GetProfiles(ctx)
		logger.Info().Msgf("Service file `%s` loaded, profiles: %v, using `%s`",
			cfg.Database.ServiceFile, profiles, cfg.Database.Service)
	}

	db, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open report database: %w", err)
	}
	defer db.Close()
	logger.Info().Str("driver", string(cfg.Database.Driver)).Msg("report database connected")

	reportStore, err := reportsql.NewReportStore(db, cfg.Report.QueryTimeout)
	if err != nil {
		return fmt.Errorf("failed to create report store: %w", err)
	}

	reports := report.NewService(reportStore, report.Settings{Location: location})

	api := server.NewWebAPI(logger, server.Config{
		Addr:            cfg.Server.Addr(),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		Dependencies: server.Dependencies{
			Reports: reports,
			Health:  reportStore,
		},
	})

	return api.Start()
}
