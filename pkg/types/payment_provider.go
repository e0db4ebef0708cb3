package types

type PaymentProvider string

const (
	PaymentProviderPayPal PaymentProvider = "paypal"
)

// PaymentStatus is the normalized status stored on a payment record.
type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
)
