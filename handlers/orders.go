package handlers

import (
    "log"
    "net/http"

    "frangoloco-store-api/storage"
    "frangoloco-store-api/utils"
)

type OrderHandler struct {
    store *storage.OrderStore
}

func NewOrderHandler(store *storage.OrderStore) *OrderHandler {
    return &OrderHandler{store: store}
}

// GetOrders devolve o histórico, mais recentes primeiro. Rota admin.
func (h *OrderHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
    orders, err := h.store.GetOrders()
    if err != nil {
        log.Printf("Error reading orders: %v", err)
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Não foi possível carregar os pedidos.")
        return
    }
    utils.WriteJSON(w, http.StatusOK, orders)
}
