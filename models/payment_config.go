package models

// PaymentProviderConfig guarda as credenciais do gateway. Ponteiros para
// serializar null quando ainda não configurado (primeiro acesso).
type PaymentProviderConfig struct {
    PublicKey *string `json:"publicKey"`
    SecretKey *string `json:"secretKey"`
}

// Keys retorna as credenciais quando ambas estão presentes e não vazias.
func (c *PaymentProviderConfig) Keys() (publicKey, secretKey string, ok bool) {
    if c == nil || c.PublicKey == nil || c.SecretKey == nil {
        return "", "", false
    }
    if *c.PublicKey == "" || *c.SecretKey == "" {
        return "", "", false
    }
    return *c.PublicKey, *c.SecretKey, true
}
