package utils

import "testing"

func TestToCents(t *testing.T) {
    t.Parallel()

    tests := []struct {
        value float64
        want  int
    }{
        {29.90, 2990},
        {0, 0},
        {19.99, 1999},
        {0.615, 62}, // arredonda, nunca trunca
        {7.50, 750},
    }

    for _, tc := range tests {
        if got := ToCents(tc.value); got != tc.want {
            t.Errorf("ToCents(%v) = %d, want %d", tc.value, got, tc.want)
        }
    }
}

func TestFromCents(t *testing.T) {
    t.Parallel()

    if got := FromCents(2990); got != 29.90 {
        t.Fatalf("FromCents(2990) = %v, want 29.90", got)
    }
}

func TestDigitsOnly(t *testing.T) {
    t.Parallel()

    tests := []struct {
        in   string
        want string
    }{
        {"(11) 98877-6655", "11988776655"},
        {"123.456.789-09", "12345678909"},
        {"abc", ""},
        {"", ""},
    }

    for _, tc := range tests {
        if got := DigitsOnly(tc.in); got != tc.want {
            t.Errorf("DigitsOnly(%q) = %q, want %q", tc.in, got, tc.want)
        }
    }
}

func TestIsDigits(t *testing.T) {
    t.Parallel()

    tests := []struct {
        in   string
        want bool
    }{
        {"123", true},
        {"12a", false},
        {"", false},
    }

    for _, tc := range tests {
        if got := IsDigits(tc.in); got != tc.want {
            t.Errorf("IsDigits(%q) = %v, want %v", tc.in, got, tc.want)
        }
    }
}
