package bootstrap

import (
	"studiobook/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	PaymentsModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.HandlerModule,
)
