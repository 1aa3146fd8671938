package payment

import (
    "errors"
    "testing"

    "frangoloco-store-api/models"
)

func validCustomer() models.CustomerForm {
    return models.CustomerForm{
        FullName: "Maria Silva",
        Email:    "maria@example.com",
        Phone:    "(11) 98877-6655",
        Document: "123.456.789-09",
    }
}

func validCard() *models.CardForm {
    return &models.CardForm{
        HolderName:  "MARIA SILVA",
        Number:      "4111111111111111",
        ExpiryMonth: "12",
        ExpiryYear:  "26",
        CVV:         "123",
    }
}

func TestValidateCustomer(t *testing.T) {
    t.Parallel()

    tests := []struct {
        name      string
        mutate    func(*models.CustomerForm)
        wantField string
    }{
        {"valid form", func(f *models.CustomerForm) {}, ""},
        {"name too short", func(f *models.CustomerForm) { f.FullName = "M" }, "fullName"},
        {"name only spaces", func(f *models.CustomerForm) { f.FullName = "   " }, "fullName"},
        {"invalid email", func(f *models.CustomerForm) { f.Email = "maria" }, "email"},
        {"phone too short", func(f *models.CustomerForm) { f.Phone = "1234" }, "phone"},
        {"document too short", func(f *models.CustomerForm) { f.Document = "123" }, "document"},
    }

    for _, tc := range tests {
        tc := tc
        t.Run(tc.name, func(t *testing.T) {
            t.Parallel()

            form := validCustomer()
            tc.mutate(&form)

            err := ValidateCustomer(form)
            if tc.wantField == "" {
                if err != nil {
                    t.Fatalf("expected valid form, got %v", err)
                }
                return
            }

            var fieldErrs FieldErrors
            if !errors.As(err, &fieldErrs) {
                t.Fatalf("expected FieldErrors, got %v", err)
            }
            if _, ok := fieldErrs[tc.wantField]; !ok {
                t.Fatalf("expected error on field %q, got %v", tc.wantField, fieldErrs)
            }
        })
    }
}

func TestValidateCard(t *testing.T) {
    t.Parallel()

    tests := []struct {
        name      string
        mutate    func(*models.CardForm)
        wantField string
    }{
        {"valid card", func(c *models.CardForm) {}, ""},
        {"four digit year", func(c *models.CardForm) { c.ExpiryYear = "2026" }, ""},
        {"holder too short", func(c *models.CardForm) { c.HolderName = "AB" }, "holderName"},
        {"number too short", func(c *models.CardForm) { c.Number = "411111111111" }, "number"},
        {"number too long", func(c *models.CardForm) { c.Number = "41111111111111111111" }, "number"},
        {"month with letters", func(c *models.CardForm) { c.ExpiryMonth = "ab" }, "expiryMonth"},
        {"month too long", func(c *models.CardForm) { c.ExpiryMonth = "123" }, "expiryMonth"},
        {"three digit year", func(c *models.CardForm) { c.ExpiryYear = "026" }, "expiryYear"},
        {"cvv too short", func(c *models.CardForm) { c.CVV = "12" }, "cvv"},
        {"cvv too long", func(c *models.CardForm) { c.CVV = "12345" }, "cvv"},
        {"cvv with letters", func(c *models.CardForm) { c.CVV = "12a" }, "cvv"},
    }

    for _, tc := range tests {
        tc := tc
        t.Run(tc.name, func(t *testing.T) {
            t.Parallel()

            card := validCard()
            tc.mutate(card)

            err := ValidateCard(card)
            if tc.wantField == "" {
                if err != nil {
                    t.Fatalf("expected valid card, got %v", err)
                }
                return
            }

            var fieldErrs FieldErrors
            if !errors.As(err, &fieldErrs) {
                t.Fatalf("expected FieldErrors, got %v", err)
            }
            if _, ok := fieldErrs[tc.wantField]; !ok {
                t.Fatalf("expected error on field %q, got %v", tc.wantField, fieldErrs)
            }
        })
    }
}

func TestValidateCardNil(t *testing.T) {
    t.Parallel()

    var fieldErrs FieldErrors
    if err := ValidateCard(nil); !errors.As(err, &fieldErrs) {
        t.Fatalf("expected FieldErrors for nil card, got %v", err)
    }
    if _, ok := fieldErrs["card"]; !ok {
        t.Fatalf("expected card field error, got %v", fieldErrs)
    }
}

func TestFieldErrorsMessageListsFieldsSorted(t *testing.T) {
    t.Parallel()

    errs := FieldErrors{"phone": "x", "email": "y"}
    if got := errs.Error(); got != "campos inválidos: email, phone" {
        t.Fatalf("unexpected message %q", got)
    }
}
