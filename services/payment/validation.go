package payment

import (
    "net/mail"
    "sort"
    "strings"

    "frangoloco-store-api/models"
    "frangoloco-store-api/utils"
)

// FieldErrors acumula erros de validação por campo, devolvidos ao
// cliente antes de qualquer chamada de rede.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
    fields := make([]string, 0, len(e))
    for field := range e {
        fields = append(fields, field)
    }
    sort.Strings(fields)
    return "campos inválidos: " + strings.Join(fields, ", ")
}

// ValidateCustomer espelha as exigências mínimas do formulário de
// checkout.
func ValidateCustomer(form models.CustomerForm) error {
    errs := FieldErrors{}

    if len(strings.TrimSpace(form.FullName)) < 2 {
        errs["fullName"] = "Nome completo é obrigatório."
    }
    if _, err := mail.ParseAddress(form.Email); err != nil {
        errs["email"] = "E-mail inválido."
    }
    if len(utils.DigitsOnly(form.Phone)) < 10 {
        errs["phone"] = "Telefone é obrigatório."
    }
    if len(utils.DigitsOnly(form.Document)) < 11 {
        errs["document"] = "CPF é obrigatório."
    }

    if len(errs) > 0 {
        return errs
    }
    return nil
}

// ValidateCard aplica o sub-esquema estrito do cartão de crédito. Falha
// aqui aborta o checkout sem tocar no gateway.
func ValidateCard(card *models.CardForm) error {
    errs := FieldErrors{}

    if card == nil {
        errs["card"] = "Dados do cartão são obrigatórios."
        return errs
    }

    if len(strings.TrimSpace(card.HolderName)) < 3 {
        errs["holderName"] = "Nome no cartão é obrigatório."
    }

    number := utils.DigitsOnly(card.Number)
    if len(number) < 13 || len(number) > 19 {
        errs["number"] = "Número do cartão inválido."
    }

    if !utils.IsDigits(card.ExpiryMonth) || len(card.ExpiryMonth) > 2 {
        errs["expiryMonth"] = "Mês inválido."
    }
    if !utils.IsDigits(card.ExpiryYear) || (len(card.ExpiryYear) != 2 && len(card.ExpiryYear) != 4) {
        errs["expiryYear"] = "Ano inválido."
    }
    if !utils.IsDigits(card.CVV) || len(card.CVV) < 3 || len(card.CVV) > 4 {
        errs["cvv"] = "CVV inválido."
    }

    if len(errs) > 0 {
        return errs
    }
    return nil
}
