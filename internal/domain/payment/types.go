package payment

type Provider string

const (
	ProviderMercadoPago Provider = "mercadopago"
	ProviderStripe      Provider = "stripe"
)

func (p Provider) String() string {
	return string(p)
}

func (p Provider) IsValid() bool {
	switch p {
	case ProviderMercadoPago, ProviderStripe:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusCreated           Status = "created"
	StatusPending           Status = "pending"
	StatusInProcess         Status = "in_process"
	StatusApproved          Status = "approved"
	StatusRefunded          Status = "refunded"
	StatusPartiallyRefunded Status = "partially_refunded"
	StatusFailed            Status = "failed"
)

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether the payment attempt has reached an outcome. A
// booking may have at most one payment in a non-terminal status at a time.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCreated, StatusPending, StatusInProcess:
		return false
	default:
		return true
	}
}

func (s Status) IsRefunded() bool {
	return s == StatusRefunded || s == StatusPartiallyRefunded
}
