package pagloop

// A API da Pagloop é inconsistente: os campos da transação podem vir no
// nível raiz ou aninhados em "data". A precedência é sempre o campo
// raiz, com fallback para o aninhado.

type pixData struct {
    QRCode string `json:"qrcode"`
}

type transactionFields struct {
    ID     string   `json:"id"`
    Status string   `json:"status"`
    Pix    *pixData `json:"pix"`
}

type transactionResponse struct {
    transactionFields
    Data         *transactionFields `json:"data"`
    Message      string             `json:"message"`
    ErrorMessage string             `json:"error"`
}

func (r *transactionResponse) transactionID() string {
    if r.ID != "" {
        return r.ID
    }
    if r.Data != nil {
        return r.Data.ID
    }
    return ""
}

func (r *transactionResponse) transactionStatus() string {
    if r.Status != "" {
        return r.Status
    }
    if r.Data != nil {
        return r.Data.Status
    }
    return ""
}

func (r *transactionResponse) pixQRCode() string {
    if r.Pix != nil && r.Pix.QRCode != "" {
        return r.Pix.QRCode
    }
    if r.Data != nil && r.Data.Pix != nil {
        return r.Data.Pix.QRCode
    }
    return ""
}

func (r *transactionResponse) errorText() string {
    if r.Message != "" {
        return r.Message
    }
    return r.ErrorMessage
}
