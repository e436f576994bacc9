package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"obsprocess/internal/config"
	"obsprocess/internal/observation"
	"obsprocess/internal/provider"
)

func main() {
	v := viper.New()
	var cfg config.Config
	var logger *slog.Logger

	var cmdRoot = &cobra.Command{
		Use:   "processor",
		Short: "Observation processing pipeline",
		Long:  `Process harvested provider observations into the inactive instance and manage the active instance`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnvFiles()
			if err := v.BindPFlag("DB_DSN", cmd.Flags().Lookup("dsn")); err != nil {
				return err
			}
			if err := v.BindPFlag("LOG_LEVEL", cmd.Flags().Lookup("log-level")); err != nil {
				return err
			}
			var err error
			if cfg, err = config.Load(v); err != nil {
				return err
			}
			logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
			slog.SetDefault(logger)
			return nil
		},
	}
	cmdRoot.PersistentFlags().String("dsn", "", "database connection string (overrides DB_DSN)")
	cmdRoot.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error (overrides LOG_LEVEL)")

	cfgFn := func() (config.Config, *slog.Logger) { return cfg, logger }
	cmdRoot.AddCommand(cmdRun(cfgFn))
	cmdRoot.AddCommand(cmdCopy(cfgFn))
	cmdRoot.AddCommand(cmdActivate(cfgFn))
	cmdRoot.AddCommand(cmdServe(cfgFn))

	if err := cmdRoot.Execute(); err != nil {
		os.Exit(1)
	}
}

type configFunc func() (config.Config, *slog.Logger)

var errRunFailed = errors.New("process run failed")

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func cmdRun(cfgFn configFunc) *cobra.Command {
	providers := "all"
	activate := false
	var cmd = &cobra.Command{
		Use:          "run",
		Short:        "process the selected providers into the inactive instance",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := cfgFn()
			mask, err := provider.ParseMask(providers)
			if err != nil {
				return err
			}

			ctx, stop := signalContext()
			defer stop()

			a, err := newApp(ctx, cfg, logger, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.process.Run(ctx, mask, activate) {
				return errRunFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&providers, "providers", "p", providers, "providers to process: a mask (\"5\", \"0x5\"), names (\"Artportalen,KUL\") or \"all\"")
	cmd.Flags().BoolVar(&activate, "activate", activate, "activate the processed instance when every provider succeeds")
	return cmd
}

func cmdCopy(cfgFn configFunc) *cobra.Command {
	var name string
	var cmd = &cobra.Command{
		Use:          "copy",
		Short:        "copy one provider's data from the active to the inactive instance",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := cfgFn()
			p, err := provider.Parse(name)
			if err != nil {
				return err
			}

			ctx, stop := signalContext()
			defer stop()

			a, err := newApp(ctx, cfg, logger, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.process.CopyProviderData(ctx, p) {
				return fmt.Errorf("copy %s failed", p)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "provider", "", "provider to copy")
	_ = cmd.MarkFlagRequired("provider")
	return cmd
}

func cmdActivate(cfgFn configFunc) *cobra.Command {
	var slot uint8
	var cmd = &cobra.Command{
		Use:          "activate",
		Short:        "make an instance the active one",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := cfgFn()
			instance := observation.Instance(slot)
			if !instance.Valid() {
				return fmt.Errorf("instance must be 0 or 1, got %d", slot)
			}

			ctx, stop := signalContext()
			defer stop()

			a, err := newApp(ctx, cfg, logger, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.instances.Activate(ctx, instance) {
				return fmt.Errorf("activate instance %s failed", instance)
			}
			return nil
		},
	}
	cmd.Flags().Uint8Var(&slot, "instance", 0, "instance to activate (0 or 1)")
	_ = cmd.MarkFlagRequired("instance")
	return cmd
}

func cmdServe(cfgFn configFunc) *cobra.Command {
	var cmd = &cobra.Command{
		Use:          "serve",
		Short:        "serve health, metrics and the internal job trigger endpoints",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := cfgFn()

			ctx, stop := signalContext()
			defer stop()

			return serve(ctx, cfg, logger)
		},
	}
	return cmd
}
