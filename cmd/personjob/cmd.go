package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/personjob/batch"
	"github.com/kbukum/personjob/bootstrap"
	"github.com/kbukum/personjob/config"
	"github.com/kbukum/personjob/errors"
	"github.com/kbukum/personjob/logger"
	"github.com/kbukum/personjob/observability"
	"github.com/kbukum/personjob/person"
	"github.com/kbukum/personjob/storage"
	"github.com/kbukum/personjob/version"

	_ "github.com/kbukum/personjob/storage/local"
	_ "github.com/kbukum/personjob/storage/s3"
)

const (
	envPrefix = "PERSONJOB"
	meterName = "github.com/kbukum/personjob/cmd/personjob"

	// sysexits: EX_TEMPFAIL means the same run may succeed later
	exitTempFail = 75
	exitConfig   = 78
)

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.IsCode(err, errors.ErrCodeInvalidConfig):
		return exitConfig
	case errors.IsRetryable(err):
		return exitTempFail
	default:
		return 1
	}
}

func newRootCmd() *cobra.Command {
	var configFile, envFile string

	root := &cobra.Command{
		Use:           "personjob",
		Short:         "Convert a name,age CSV file into a JSON array of people",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := []config.LoaderOption{config.WithEnvPrefix(envPrefix)}
			if configFile != "" {
				opts = append(opts, config.WithConfigFile(configFile))
			}
			if envFile != "" {
				opts = append(opts, config.WithEnvFile(envFile))
			}
			return run(cmd.Context(), opts...)
		},
	}
	root.Flags().StringVarP(&configFile, "config", "c", "", "path to config.yml")
	root.Flags().StringVar(&envFile, "env-file", "", "path to a .env file with PERSONJOB_* overrides")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
		},
	})
	return root
}

func run(ctx context.Context, opts ...config.LoaderOption) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var cfg person.Config
	if err := config.LoadConfig(person.DefaultServiceName, &cfg, opts...); err != nil {
		return err
	}

	build := version.Get()
	if cfg.Version == "" {
		cfg.Version = build.Version
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		return err
	}

	// telemetry first so the global providers exist before the job builds its instruments
	if err := app.RegisterComponent(observability.NewComponent(cfg.Telemetry, cfg.ServiceInfo())); err != nil {
		return err
	}
	store := storage.NewComponent(cfg.Storage, app.Logger)
	if err := app.RegisterComponent(store); err != nil {
		return err
	}

	var (
		job  *batch.Job
		exec *batch.JobExecution
	)
	app.OnStart(func(context.Context) error {
		logger.Get(app.Name).Debug("build info", build.Fields())
		return nil
	})
	app.OnConfigure(func(_ context.Context, a *bootstrap.App[*person.Config]) error {
		metrics, err := observability.NewBatchMetrics(observability.Meter(meterName))
		if err != nil {
			return fmt.Errorf("create metrics: %w", err)
		}
		jobOpts := append(a.Cfg.Options(), person.WithLogger(a.Logger), person.WithMetrics(metrics))
		job, err = person.NewJob(a.Cfg.Resources(store.Storage()), jobOpts...)
		return err
	})
	app.OnStop(func(context.Context) error {
		if exec == nil {
			return nil
		}
		app.Logger.Info("job summary", logger.MergeWithDuration(logger.Fields(
			logger.FieldExecutionID, exec.ID,
			logger.FieldStatus, string(exec.Status),
			logger.FieldReadCount, exec.ReadCount(),
			logger.FieldWriteCount, exec.WriteCount(),
		), exec.Duration()))
		return nil
	})

	return app.RunTask(ctx, func(ctx context.Context) error {
		var err error
		exec, err = job.Execute(ctx)
		if err != nil {
			return err
		}
		app.Logger.Info("people written", logger.Fields(
			logger.FieldExecutionID, exec.ID,
			"output", cfg.Output.Path,
			logger.FieldWriteCount, exec.WriteCount(),
		))
		return nil
	})
}
