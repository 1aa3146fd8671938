package models

type PaymentMethod string

const (
    MethodPix        PaymentMethod = "pix"
    MethodCreditCard PaymentMethod = "credit_card"
)

func (m PaymentMethod) IsValid() bool {
    return m == MethodPix || m == MethodCreditCard
}

// PaymentPayload é a requisição normalizada enviada ao gateway Pagloop.
// Valores monetários em centavos.
type PaymentPayload struct {
    Amount        int           `json:"amount"`
    PaymentMethod PaymentMethod `json:"paymentMethod"`
    Items         []PaymentItem `json:"items"`
    Customer      Customer      `json:"customer"`
    Card          *CardPayload  `json:"card,omitempty"`
}

type PaymentItem struct {
    Title     string `json:"title"`
    UnitPrice int    `json:"unitPrice"`
    Quantity  int    `json:"quantity"`
    Tangible  bool   `json:"tangible"`
}

type Customer struct {
    Name     string   `json:"name"`
    Email    string   `json:"email"`
    Phone    string   `json:"phone"`
    Document Document `json:"document"`
}

type Document struct {
    Number string `json:"number"`
    Type   string `json:"type"`
}

type CardPayload struct {
    HolderName  string `json:"holderName"`
    Number      string `json:"number"`
    ExpiryMonth string `json:"expiryMonth"`
    ExpiryYear  string `json:"expiryYear"`
    CVV         string `json:"cvv"`
}

// TransactionResult é a resposta normalizada do gateway, já com o
// QR Code derivado quando o método é PIX. Nunca vai para o wire; os
// contratos HTTP têm seus próprios tipos em response.go.
type TransactionResult struct {
    TransactionID  string
    Status         string
    QRCodeText     string
    QRCodeImageURL string
}
