package app

import (
	"context"

	"github.com/carousell/ct-go/pkg/logger"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"

	"github.com/complyhq/complybot/internal/config"
	"github.com/complyhq/complybot/internal/repo/llm"
	"github.com/complyhq/complybot/internal/repo/mongodb"
	"github.com/complyhq/complybot/internal/repo/remoteflags"
	"github.com/complyhq/complybot/internal/server"
	"github.com/complyhq/complybot/internal/stream"
	"github.com/complyhq/complybot/internal/usecase"
)

func Invoke(funcs ...any) *fx.App {
	log := logger.MustNamed("app")
	conf := config.MustLoad()
	log.Debugw("config loaded", log.Reflect("config", conf))
	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.ZapLogger{
				Logger: log.Unwrap().Desugar(),
			}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		fx.Provide(
			newMongoDB,
			newSessionStore,
			stream.NewHub,
			remoteflags.NewReader,
			newLLMClient,

			server.NewHandler,
			server.NewAuthController,
			server.NewOnboardingController,
			server.NewBusinessController,
			server.NewComplianceController,
			server.NewDashboardController,
			server.NewStreamHandler,

			usecase.NewAuthUsecase,
			usecase.NewOnboardingUsecase,
			usecase.NewBusinessUsecase,
			usecase.NewComplianceUsecase,
			usecase.NewDashboardUsecase,

			mongodb.NewProfileRepository,
			mongodb.NewBusinessRepository,
			mongodb.NewComplianceRepository,
			mongodb.NewAuthTokenRepository,
		),
		fx.Supply(conf),
		fx.Invoke(InitializeRemoteFlags),
		fx.Invoke(funcs...),
	)
}

func newSessionStore(cfg *config.Config) *usecase.SessionStore {
	return usecase.NewSessionStore(cfg.Onboarding.SessionTTL)
}

func newLLMClient(cfg *config.Config, flags remoteflags.Reader) llm.Client {
	return llm.NewClient(cfg, flags)
}

// InitializeRemoteFlags activates the remote flag set before the server
// starts taking traffic.
func InitializeRemoteFlags(lc fx.Lifecycle, flags remoteflags.Reader) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return flags.Initialize(ctx)
		},
	})
}
