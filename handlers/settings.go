package handlers

import (
    "encoding/json"
    "log"
    "net/http"

    "frangoloco-store-api/models"
    "frangoloco-store-api/storage"
    "frangoloco-store-api/utils"
)

type SettingsHandler struct {
    store *storage.ConfigStore
}

func NewSettingsHandler(store *storage.ConfigStore) *SettingsHandler {
    return &SettingsHandler{store: store}
}

func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
    cfg, err := h.store.Load()
    if err != nil {
        log.Printf("Error reading payment config: %v", err)
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Não foi possível ler a configuração de pagamento.")
        return
    }
    utils.WriteJSON(w, http.StatusOK, cfg)
}

// SaveSettings mescla as chaves enviadas sobre a configuração atual:
// campo vazio no formulário não apaga uma chave já salva.
func (h *SettingsHandler) SaveSettings(w http.ResponseWriter, r *http.Request) {
    var req struct {
        PublicKey string `json:"publicKey"`
        SecretKey string `json:"secretKey"`
    }
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        utils.SendErrorResponse(w, http.StatusBadRequest, "Dados inválidos.")
        return
    }

    current, err := h.store.Load()
    if err != nil {
        log.Printf("Error reading payment config: %v", err)
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Não foi possível ler a configuração de pagamento.")
        return
    }

    merged := *current
    if req.PublicKey != "" {
        merged.PublicKey = &req.PublicKey
    }
    if req.SecretKey != "" {
        merged.SecretKey = &req.SecretKey
    }

    if err := h.store.Save(&merged); err != nil {
        log.Printf("Error saving payment config: %v", err)
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Não foi possível salvar a configuração de pagamento.")
        return
    }

    log.Printf("Payment gateway credentials updated")
    utils.SendSuccessResponse(w, models.APIResponse{Status: "success", Message: "Configuração salva"})
}
