package models

type APIResponse struct {
    Status  string      `json:"status"`
    Message string      `json:"message"`
    Data    interface{} `json:"data,omitempty"`
}

// CheckoutResponse é o contrato de POST /api/create-payment.
type CheckoutResponse struct {
    Success       bool              `json:"success"`
    QRCode        string            `json:"qrCode,omitempty"`
    QRCodeText    string            `json:"qrCodeText,omitempty"`
    TransactionID string            `json:"transactionId,omitempty"`
    Status        string            `json:"status,omitempty"`
    Error         string            `json:"error,omitempty"`
    Fields        map[string]string `json:"fields,omitempty"`
}

// StatusResponse é o contrato de POST /api/check-status.
type StatusResponse struct {
    Status string `json:"status,omitempty"`
    Error  string `json:"error,omitempty"`
}

type SessionResponse struct {
    TransactionID    string `json:"transactionId"`
    Status           string `json:"status"`
    RemainingSeconds int    `json:"remainingSeconds"`
    Message          string `json:"message,omitempty"`
}

type DashboardSummary struct {
    TotalRevenue  float64 `json:"totalRevenue"`
    OrderCount    int     `json:"orderCount"`
    AverageTicket float64 `json:"averageTicket"`
    RecentOrders  []Order `json:"recentOrders"`
}
