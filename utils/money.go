package utils

import "math"

// ToCents converte reais para centavos com arredondamento. Nenhuma
// comparação monetária é feita em ponto flutuante depois daqui.
func ToCents(value float64) int {
    return int(math.Round(value * 100))
}

func FromCents(cents int) float64 {
    return float64(cents) / 100
}

func Round(value float64) float64 {
    return math.Round(value*100) / 100
}
