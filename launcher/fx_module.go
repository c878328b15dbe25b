package launcher

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/autotel"
)

// FXModule provides the Launcher to an Fx application and hooks Shutdown
// into the Fx lifecycle.
//
// The application must supply a *Config; a *zap.Logger and an
// autotel.Config are picked up when present.
//
// Usage:
//
//	app := fx.New(
//	    launcher.FXModule,
//	    fx.Provide(func() (*launcher.Config, error) {
//	        return launcher.Load(os.Getenv("AUTOTEL_CONFIG"))
//	    }),
//	    fx.Invoke(func(l *launcher.Launcher) {
//	        // wire handlers, clients, ...
//	    }),
//	)
var FXModule = fx.Module("autotel",
	fx.Provide(newFxLauncher),
	fx.Invoke(registerLifecycle),
)

// FXParams collects the launcher's dependencies from the Fx container.
type FXParams struct {
	fx.In

	Config          *Config
	Logger          *zap.Logger    `optional:"true"`
	Instrumentation autotel.Config `optional:"true"`
}

func newFxLauncher(params FXParams) (*Launcher, error) {
	var opts []Option
	if params.Logger != nil {
		opts = append(opts, WithLogger(params.Logger))
	}
	if params.Instrumentation != nil {
		opts = append(opts, WithInstrumentationConfig(params.Instrumentation))
	}
	return New(context.Background(), params.Config, opts...)
}

func registerLifecycle(lc fx.Lifecycle, l *Launcher) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return l.Shutdown(ctx)
		},
	})
}
