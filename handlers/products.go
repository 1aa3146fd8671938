package handlers

import (
    "encoding/json"
    "log"
    "net/http"

    "frangoloco-store-api/models"
    "frangoloco-store-api/storage"
    "frangoloco-store-api/utils"
)

type ProductHandler struct {
    store *storage.ProductStore
}

func NewProductHandler(store *storage.ProductStore) *ProductHandler {
    return &ProductHandler{store: store}
}

func (h *ProductHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
    products, err := h.store.GetProducts()
    if err != nil {
        log.Printf("Error reading products: %v", err)
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Não foi possível carregar os produtos.")
        return
    }
    utils.WriteJSON(w, http.StatusOK, products)
}

// SaveProducts substitui o catálogo inteiro (o painel admin sempre envia
// a lista completa).
func (h *ProductHandler) SaveProducts(w http.ResponseWriter, r *http.Request) {
    var products []models.Product
    if err := json.NewDecoder(r.Body).Decode(&products); err != nil {
        utils.SendErrorResponse(w, http.StatusBadRequest, "Dados dos produtos inválidos.")
        return
    }

    for _, p := range products {
        if p.ID == "" || p.Name == "" || p.Price < 0 || p.ImageURL == "" || p.Category == "" {
            utils.SendErrorResponse(w, http.StatusBadRequest, "Dados dos produtos inválidos.")
            return
        }
    }

    if err := h.store.SaveProducts(products); err != nil {
        log.Printf("Error saving products: %v", err)
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Não foi possível salvar os produtos.")
        return
    }
    utils.SendSuccessResponse(w, models.APIResponse{Status: "success", Message: "Produtos salvos"})
}
