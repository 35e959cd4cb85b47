package components

import (
	"context"

	"library-api/internal/domain/loan"
	"library-api/internal/infra/ai"
	"library-api/internal/infra/tokenstore"
	"library-api/internal/pkg/clock"
	"library-api/internal/pkg/config"
	"library-api/internal/pkg/jwt"
	"library-api/internal/usecase"
	"library-api/internal/usecase/commands"
	"library-api/internal/usecase/queries"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
	usecaseWorkersModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(cfg config.Config) loan.Policy {
		return loan.NewPolicy(cfg.Loan.DefaultPeriod)
	},
	fx.Annotate(
		func(j *jwt.Service) *jwt.Service { return j },
		fx.As(new(commands.TokenService)),
	),
	NewRefreshSessionStore,
	fx.Annotate(
		func(cfg config.Config) *ai.Client { return ai.NewClient(cfg.AI) },
		fx.As(new(commands.TextCompleter)),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewBookUseCase,
		commands.NewLoanUseCase,
		commands.NewUserUseCase,
		commands.NewSummaryUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookQueries,
		queries.NewLoanQueries,
		queries.NewUserQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

var usecaseWorkersModule = fx.Module("usecase/workers",
	fx.Provide(
		func(cmds commands.LoanCommands, clk clock.Clock, cfg config.Config) *usecase.OverdueSweeper {
			return usecase.NewOverdueSweeper(cmds, clk, cfg.Loan.SweepInterval)
		},
	),
	fx.Invoke(startOverdueSweeper),
)

// NewRefreshSessionStore keeps sessions in Redis when configured. The in-memory store
// only works for a single instance.
func NewRefreshSessionStore(client *redis.Client, cfg config.Config, clk clock.Clock) commands.RefreshSessionStore {
	if client == nil {
		return tokenstore.NewMemoryStore(clk)
	}
	return tokenstore.NewRedisStore(client, cfg.Redis.Prefix)
}

func startOverdueSweeper(lc fx.Lifecycle, sweeper *usecase.OverdueSweeper) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			sweeper.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			sweeper.Stop()
			return nil
		},
	})
}
