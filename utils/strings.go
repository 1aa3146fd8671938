package utils

import "strings"

// DigitsOnly remove tudo que não for dígito (telefone, CPF, cartão).
func DigitsOnly(s string) string {
    var b strings.Builder
    b.Grow(len(s))
    for _, r := range s {
        if r >= '0' && r <= '9' {
            b.WriteRune(r)
        }
    }
    return b.String()
}

// IsDigits informa se a string é não vazia e composta só por dígitos.
func IsDigits(s string) bool {
    if s == "" {
        return false
    }
    for _, r := range s {
        if r < '0' || r > '9' {
            return false
        }
    }
    return true
}
