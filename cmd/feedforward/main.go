// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the feedforward CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/feedforward/internal/apperrors"
	"github.com/pdiddy/feedforward/internal/events"
	"github.com/pdiddy/feedforward/internal/feedforward"
	"github.com/pdiddy/feedforward/internal/identity"
	"github.com/pdiddy/feedforward/internal/objectstore"
	"github.com/pdiddy/feedforward/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// errOperationFailed is returned after a failed response envelope has
// already been printed.
var errOperationFailed = errors.New("operation failed")

// rootCmd is the base command for the feedforward CLI.
var rootCmd = &cobra.Command{
	Use:   "feedforward",
	Short: "Match knowledge supply to demand across participants",
	Long: `feedforward records what participants can offer (supply) and what they
are looking for (demand) as hashed keyword sets, and ranks supplies against
a demand by keyword overlap weighted by the creator's trust score.

Keywords are hashed before they are stored. Each command prints a response
envelope as JSON, or YAML with --format yaml.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./feedforward.yaml or ~/.config/feedforward/feedforward.yaml)")
	flags.String("store", "", "SQLite database file (default data/feedforward.db)")
	flags.String("participant", "", "participant id to act as (overrides the identity directory)")
	flags.String("identity-dir", "", "directory holding the participant-id credential (default .identity/)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("format", "json", "output format: json or yaml")

	_ = viper.BindPFlag("store.path", flags.Lookup("store"))
	_ = viper.BindPFlag("identity.participant", flags.Lookup("participant"))
	_ = viper.BindPFlag("identity.dir", flags.Lookup("identity-dir"))
	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))
}

func initConfig() {
	setDefaults(types.DefaultConfig())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("feedforward")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "feedforward"))
		}
	}

	viper.SetEnvPrefix("FEEDFORWARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so that env overrides and
// Unmarshal see them even without a config file.
func setDefaults(cfg types.Config) {
	viper.SetDefault("store.path", cfg.Store.Path)
	viper.SetDefault("store.busy_retries", cfg.Store.BusyRetries)
	viper.SetDefault("store.busy_base_delay", cfg.Store.BusyBaseDelay)
	viper.SetDefault("identity.participant", cfg.Identity.Participant)
	viper.SetDefault("identity.dir", cfg.Identity.Dir)
	viper.SetDefault("matching.min_trust", cfg.Matching.MinTrust)
	viper.SetDefault("matching.limit", cfg.Matching.Limit)
	viper.SetDefault("log.level", cfg.Log.Level)
	viper.SetDefault("log.development", cfg.Log.Development)
}

func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg types.LogConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}
	zc.Level = level
	return zc.Build()
}

// app is an opened engine together with what it needs released.
type app struct {
	cfg    types.Config
	engine *feedforward.Engine
	logger *zap.Logger
	store  *objectstore.SQLite
}

// openApp loads config, opens the store, warms the caches, and installs
// the event logging listener.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return nil, err
	}

	store, err := objectstore.NewSQLite(cfg.Store)
	if err != nil {
		_ = logger.Sync()
		return nil, apperrors.Store("open "+cfg.Store.Path, err)
	}

	who := identity.Chain{
		identity.Static(cfg.Identity.Participant),
		identity.Dir(cfg.Identity.Dir),
	}
	engine := feedforward.New(store, who, logger)

	n, err := engine.Warm(ctx)
	if err != nil {
		store.Close()
		return nil, err
	}
	logger.Debug("Caches warmed", zap.Int("objects", n), zap.String("store", cfg.Store.Path))

	eventLog := logger.Named("events")
	engine.Events().SubscribeAll(func(ev events.Event) {
		eventLog.Info("Event",
			zap.String("event", string(ev.Name)),
			zap.Time("time", ev.Time),
			zap.Any("payload", ev.Payload))
	})

	return &app{cfg: cfg, engine: engine, logger: logger, store: store}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("Failed to close store", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// run opens the app, runs op through the response envelope, and prints it.
// A failure to open the app is reported in the same envelope.
func run[T any](cmd *cobra.Command, op string, fn func(ctx context.Context, a *app) (T, error)) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return printResponse(cmd, feedforward.Failure[T](fmt.Errorf("%s: %w", op, err)))
	}
	defer a.Close()

	resp := feedforward.Call(cmd.Context(), a.logger, op, func(ctx context.Context) (T, error) {
		return fn(ctx, a)
	})
	return printResponse(cmd, resp)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errOperationFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}
