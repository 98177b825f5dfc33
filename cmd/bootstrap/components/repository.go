package components

import (
	"studiobook/internal/infra/db"
	"studiobook/internal/infra/readstore"
	repo_impl "studiobook/internal/infra/repository"
	"studiobook/internal/usecase"
	"studiobook/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		fx.Annotate(
			db.NewPoolRunner,
			fx.As(new(db.TxRunner)),
		),
		fx.Annotate(
			repo_impl.NewBookingRepository,
			fx.As(new(usecase.BookingStore)),
		),
		fx.Annotate(
			repo_impl.NewPaymentRepository,
			fx.As(new(usecase.PaymentStore)),
		),
		fx.Annotate(
			repo_impl.NewPaymentEventRepository,
			fx.As(new(usecase.PaymentEventStore)),
		),
		fx.Annotate(
			repo_impl.NewConversationRepository,
			fx.As(new(usecase.ConversationStore)),
		),
		fx.Annotate(
			repo_impl.NewNotificationRepository,
			fx.As(new(usecase.NotificationStore)),
		),
		// Read-side stores for queries
		fx.Annotate(
			readstore.NewRoomReadStore,
			fx.As(new(usecase.RoomReader)),
		),
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReadStore)),
		),
		fx.Annotate(
			readstore.NewPaymentReadStore,
			fx.As(new(queries.PaymentReadStore)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
