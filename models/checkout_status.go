package models

// CheckoutStatus representa o estado de uma tentativa de checkout.
type CheckoutStatus string

const (
    StatusPending CheckoutStatus = "pending"
    StatusPaid    CheckoutStatus = "paid"
    StatusError   CheckoutStatus = "error"
    StatusExpired CheckoutStatus = "expired"
)

func (s CheckoutStatus) IsValid() bool {
    switch s {
    case StatusPending, StatusPaid, StatusError, StatusExpired:
        return true
    default:
        return false
    }
}

// Terminal indica que a tentativa não muda mais de estado.
func (s CheckoutStatus) Terminal() bool {
    return s == StatusPaid || s == StatusError || s == StatusExpired
}
