package handlers

import (
    "encoding/json"
    "errors"
    "log"
    "net/http"

    "frangoloco-store-api/middleware"
    "frangoloco-store-api/models"
    "frangoloco-store-api/services/auth"
    "frangoloco-store-api/utils"
)

type AuthHandler struct {
    authService *auth.Service
    session     *middleware.SessionAuth
}

func NewAuthHandler(authService *auth.Service, session *middleware.SessionAuth) *AuthHandler {
    return &AuthHandler{authService: authService, session: session}
}

// Login autentica o admin contra a credencial estática e grava o token
// no cookie de sessão.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
    var req models.AuthRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        utils.SendErrorResponse(w, http.StatusBadRequest, "Dados de login inválidos.")
        return
    }
    if req.Username == "" || req.Password == "" {
        utils.SendErrorResponse(w, http.StatusBadRequest, "Usuário e senha são obrigatórios.")
        return
    }

    log.Printf("Admin login attempt for user: %s", req.Username)

    token, err := h.authService.Authenticate(req.Username, req.Password)
    if err != nil {
        if errors.Is(err, auth.ErrInvalidCredentials) {
            utils.SendErrorResponse(w, http.StatusUnauthorized, "Usuário ou senha inválidos.")
            return
        }
        log.Printf("Authentication error for user %s: %v", req.Username, err)
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Erro interno de autenticação.")
        return
    }

    if err := h.session.SaveToken(w, r, token); err != nil {
        log.Printf("Failed to save admin session: %v", err)
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Não foi possível criar a sessão.")
        return
    }

    utils.SendSuccessResponse(w, models.APIResponse{Status: "success", Message: "Login realizado"})
}

// Verify informa se há uma sessão admin válida.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
    if _, err := h.session.Username(r); err != nil {
        utils.WriteJSON(w, http.StatusUnauthorized, map[string]bool{"authenticated": false})
        return
    }
    utils.WriteJSON(w, http.StatusOK, map[string]bool{"authenticated": true})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
    h.session.ClearToken(w, r)
    utils.SendSuccessResponse(w, models.APIResponse{Status: "success", Message: "Logout realizado"})
}
