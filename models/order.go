package models

import "time"

// Order é persistido somente quando o pagamento atinge o estado "paid".
// Total em reais, não em centavos.
type Order struct {
    ID        string        `json:"id"`
    CreatedAt time.Time     `json:"createdAt"`
    Total     float64       `json:"total"`
    Items     []CartItem    `json:"items"`
    Customer  OrderCustomer `json:"customer"`
}

type OrderCustomer struct {
    Name  string `json:"name"`
    Email string `json:"email"`
}
