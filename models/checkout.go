package models

// CheckoutRequest é o corpo aceito por POST /api/create-payment.
type CheckoutRequest struct {
    Customer      CustomerForm  `json:"customer"`
    Items         []CartItem    `json:"items"`
    PaymentMethod PaymentMethod `json:"paymentMethod"`
    Card          *CardForm     `json:"card,omitempty"`
}

type CustomerForm struct {
    FullName string `json:"fullName"`
    Email    string `json:"email"`
    Phone    string `json:"phone"`
    Document string `json:"document"`
}

type CardForm struct {
    HolderName  string `json:"holderName"`
    Number      string `json:"number"`
    ExpiryMonth string `json:"expiryMonth"`
    ExpiryYear  string `json:"expiryYear"`
    CVV         string `json:"cvv"`
}
