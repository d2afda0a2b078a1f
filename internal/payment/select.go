package payment

import "fmt"

type GatewayKeys struct {
	StripeSecretKey  string
	MercadoPagoToken string
}

// NewGateway builds the gateway named by PAYMENT_GATEWAY.
func NewGateway(name string, keys GatewayKeys) (Gateway, error) {
	switch name {
	case "stripe":
		if keys.StripeSecretKey == "" {
			return nil, fmt.Errorf("payment gateway stripe: STRIPE_SECRET_KEY is empty")
		}
		return NewStripeGateway(keys.StripeSecretKey), nil
	case "mercadopago":
		if keys.MercadoPagoToken == "" {
			return nil, fmt.Errorf("payment gateway mercadopago: MERCADOPAGO_ACCESS_TOKEN is empty")
		}
		return NewMercadoPagoGateway(keys.MercadoPagoToken)
	case "memory":
		return NewMemoryGateway(), nil
	}
	return nil, fmt.Errorf("unknown payment gateway %q", name)
}
