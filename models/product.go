package models

// Product espelha o catálogo exibido na loja (products.json).
type Product struct {
    ID            string  `json:"id"`
    Name          string  `json:"name"`
    Description   string  `json:"description"`
    Price         float64 `json:"price"`
    OriginalPrice float64 `json:"originalPrice,omitempty"`
    ImageURL      string  `json:"imageUrl"`
    ImageHint     string  `json:"imageHint,omitempty"`
    Discount      string  `json:"discount,omitempty"`
    Category      string  `json:"category"`
    Serves        string  `json:"serves,omitempty"`
}

type CartItem struct {
    Product  Product `json:"product"`
    Quantity int     `json:"quantity"`
}
