package components

import (
	"library-api/internal/infra/dbq"
	"library-api/internal/infra/readstore"
	"library-api/internal/infra/uow"
	"library-api/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	uowModule,
)

var baseOption = fx.Provide(
	NewQueries,
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// Book
		fx.Annotate(
			NewQueries,
			fx.As(new(readstore.BookReadQueries)),
		),
		fx.Annotate(
			readstore.NewBookReadStore,
			fx.As(new(queries.BookReadStore)),
		),
		// Loan
		fx.Annotate(
			NewQueries,
			fx.As(new(readstore.LoanReadQueries)),
		),
		fx.Annotate(
			readstore.NewLoanReadStore,
			fx.As(new(queries.LoanReadStore)),
		),
		// User
		fx.Annotate(
			NewQueries,
			fx.As(new(readstore.UserReadQueries)),
		),
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserReadStore)),
		),
		// Stats
		fx.Annotate(
			NewQueries,
			fx.As(new(readstore.StatsReadQueries)),
		),
		fx.Annotate(
			readstore.NewStatsReadStore,
			fx.As(new(queries.StatsReadStore)),
		),
	),
)

// Repositories are created per transaction by the unit of work.
var uowModule = fx.Module("persistence/uow",
	fx.Provide(
		uow.NewPostgresUoW,
	),
)

func NewQueries() *dbq.Queries {
	return dbq.New()
}

func NewDBTX(pool *pgxpool.Pool) dbq.DBTX {
	return pool
}
