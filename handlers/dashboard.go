package handlers

import (
    "log"
    "net/http"

    "frangoloco-store-api/models"
    "frangoloco-store-api/storage"
    "frangoloco-store-api/utils"
)

const recentOrdersLimit = 10

// DashboardHandler agrega o lado de leitura do painel de vendas. O
// painel consulta este endpoint a cada 5 segundos.
type DashboardHandler struct {
    orders *storage.OrderStore
}

func NewDashboardHandler(orders *storage.OrderStore) *DashboardHandler {
    return &DashboardHandler{orders: orders}
}

func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
    orders, err := h.orders.GetOrders()
    if err != nil {
        log.Printf("Error reading orders for dashboard: %v", err)
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Não foi possível carregar o resumo de vendas.")
        return
    }

    summary := models.DashboardSummary{
        OrderCount:   len(orders),
        RecentOrders: orders,
    }
    for _, o := range orders {
        summary.TotalRevenue += o.Total
    }
    summary.TotalRevenue = utils.Round(summary.TotalRevenue)
    if len(orders) > 0 {
        summary.AverageTicket = utils.Round(summary.TotalRevenue / float64(len(orders)))
    }
    if len(summary.RecentOrders) > recentOrdersLimit {
        summary.RecentOrders = summary.RecentOrders[:recentOrdersLimit]
    }

    utils.WriteJSON(w, http.StatusOK, summary)
}
