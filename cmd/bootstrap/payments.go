package bootstrap

import (
	"studiobook/internal/domain/payment"
	"studiobook/internal/infra/paygate"
	"studiobook/internal/pkg/config"
	"studiobook/internal/usecase"

	"go.uber.org/fx"
)

var PaymentsModule = fx.Module("payments",
	fx.Provide(
		NewMercadoPagoClient,
		NewMercadoPagoGateway,
		NewStripeGateway,
		NewGatewayDispatcher,
		func(c *paygate.MercadoPagoClient) usecase.MercadoPagoAPI { return c },
		func(d *paygate.Dispatcher) usecase.GatewaySelector { return d },
	),
)

func NewMercadoPagoClient(cfg config.Config) *paygate.MercadoPagoClient {
	return paygate.NewMercadoPagoClient(cfg.Payments.MercadoPagoBaseURL)
}

func NewMercadoPagoGateway(client *paygate.MercadoPagoClient, cfg config.Config) *paygate.MercadoPagoGateway {
	return paygate.NewMercadoPagoGateway(client, cfg.Payments)
}

func NewStripeGateway(cfg config.Config) *paygate.StripeGateway {
	return paygate.NewStripeGateway(cfg.Payments)
}

func NewGatewayDispatcher(cfg config.Config, mp *paygate.MercadoPagoGateway, stripe *paygate.StripeGateway) *paygate.Dispatcher {
	return paygate.NewDispatcher(payment.Provider(cfg.Payments.DefaultProvider), mp, stripe)
}
