package payment

import (
    "frangoloco-store-api/models"
    "frangoloco-store-api/utils"
)

// BuildPayload transforma o carrinho e o formulário de checkout na
// requisição normalizada do gateway. Transformação pura: sem rede, sem
// retry, sem efeitos colaterais.
//
// Valores monetários viram centavos via arredondamento; telefone e CPF
// perdem tudo que não é dígito; todo item é tangível (só vendemos
// comida física).
func BuildPayload(req *models.CheckoutRequest) *models.PaymentPayload {
    items := make([]models.PaymentItem, 0, len(req.Items))
    amount := 0
    for _, line := range req.Items {
        unitPrice := utils.ToCents(line.Product.Price)
        amount += unitPrice * line.Quantity
        items = append(items, models.PaymentItem{
            Title:     line.Product.Name,
            UnitPrice: unitPrice,
            Quantity:  line.Quantity,
            Tangible:  true,
        })
    }

    payload := &models.PaymentPayload{
        Amount:        amount,
        PaymentMethod: req.PaymentMethod,
        Items:         items,
        Customer: models.Customer{
            Name:  req.Customer.FullName,
            Email: req.Customer.Email,
            Phone: utils.DigitsOnly(req.Customer.Phone),
            Document: models.Document{
                Number: utils.DigitsOnly(req.Customer.Document),
                Type:   "cpf",
            },
        },
    }

    if req.PaymentMethod == models.MethodCreditCard && req.Card != nil {
        payload.Card = &models.CardPayload{
            HolderName:  req.Card.HolderName,
            Number:      utils.DigitsOnly(req.Card.Number),
            ExpiryMonth: req.Card.ExpiryMonth,
            ExpiryYear:  normalizeExpiryYear(req.Card.ExpiryYear),
            CVV:         req.Card.CVV,
        }
    }

    return payload
}

// Ano com 2 dígitos vira 4 dígitos com prefixo "20".
func normalizeExpiryYear(year string) string {
    if len(year) == 2 {
        return "20" + year
    }
    return year
}
