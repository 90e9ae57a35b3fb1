// Package bootstrap runs a finite task inside a uniform application
// lifecycle: typed config with defaults and validation, logger setup,
// component start in registration order, lifecycle hooks, signal-driven
// cancellation, and graceful shutdown in reverse order.
//
// # Quick Start
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	app.RegisterComponent(storageComponent)
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    _, err := job.Execute(ctx)
//	    return err
//	})
package bootstrap
