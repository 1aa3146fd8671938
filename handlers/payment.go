package handlers

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "net/http"

    "github.com/google/uuid"

    "frangoloco-store-api/models"
    "frangoloco-store-api/services/checkout"
    "frangoloco-store-api/services/payment"
    "frangoloco-store-api/services/payment/pagloop"
    "frangoloco-store-api/utils"
)

// StatusChecker é a fatia do client Pagloop que o check-status usa.
type StatusChecker interface {
    GetTransactionStatus(ctx context.Context, transactionID string) (string, error)
}

type PaymentHandler struct {
    orchestrator *checkout.Orchestrator
    status       StatusChecker
}

func NewPaymentHandler(orchestrator *checkout.Orchestrator, status StatusChecker) (*PaymentHandler, error) {
    if orchestrator == nil {
        return nil, fmt.Errorf("checkout orchestrator is required")
    }
    if status == nil {
        return nil, fmt.Errorf("status checker is required")
    }
    return &PaymentHandler{orchestrator: orchestrator, status: status}, nil
}

// CreatePayment recebe o formulário de checkout, dispara o orquestrador
// e devolve o contrato de create-payment.
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
    requestID := uuid.New().String()

    var req models.CheckoutRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        log.Printf("[RequestID: %s] Invalid create-payment body: %v", requestID, err)
        utils.WriteJSON(w, http.StatusBadRequest, models.CheckoutResponse{
            Success: false,
            Error:   "Corpo da requisição inválido.",
        })
        return
    }

    log.Printf("[RequestID: %s] Starting checkout: method=%s items=%d", requestID, req.PaymentMethod, len(req.Items))

    session, err := h.orchestrator.Submit(r.Context(), &req)
    if err != nil {
        h.writeSubmitError(w, requestID, err)
        return
    }

    resp := models.CheckoutResponse{
        Success:       true,
        TransactionID: session.TransactionID(),
    }
    switch session.Method() {
    case models.MethodPix:
        resp.QRCode = session.QRCodeImageURL()
        resp.QRCodeText = session.QRCodeText()
    case models.MethodCreditCard:
        // O cliente decide sucesso/recusa pelo status bruto do gateway.
        resp.Status = session.GatewayStatus()
    }

    log.Printf("[RequestID: %s] Checkout created: transaction=%s status=%s", requestID, session.TransactionID(), session.Status())
    utils.WriteJSON(w, http.StatusOK, resp)
}

func (h *PaymentHandler) writeSubmitError(w http.ResponseWriter, requestID string, err error) {
    var fieldErrs payment.FieldErrors

    switch {
    case errors.As(err, &fieldErrs):
        log.Printf("[RequestID: %s] Checkout validation failed: %v", requestID, err)
        utils.WriteJSON(w, http.StatusBadRequest, models.CheckoutResponse{
            Success: false,
            Error:   "Dados inválidos. Verifique os campos destacados.",
            Fields:  fieldErrs,
        })
    case errors.Is(err, checkout.ErrEmptyCart), errors.Is(err, checkout.ErrInvalidMethod):
        log.Printf("[RequestID: %s] Checkout rejected: %v", requestID, err)
        utils.WriteJSON(w, http.StatusBadRequest, models.CheckoutResponse{
            Success: false,
            Error:   err.Error(),
        })
    default:
        // Erros de configuração e de gateway chegam aqui com mensagem
        // legível; nada propaga como falha não tratada.
        log.Printf("[RequestID: %s] Checkout failed: %v", requestID, err)
        utils.WriteJSON(w, http.StatusInternalServerError, models.CheckoutResponse{
            Success: false,
            Error:   err.Error(),
        })
    }
}

// CheckStatus consulta o status bruto da transação no gateway. Leitura
// pura e idempotente.
func (h *PaymentHandler) CheckStatus(w http.ResponseWriter, r *http.Request) {
    var req struct {
        TransactionID string `json:"transactionId"`
    }
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TransactionID == "" {
        utils.WriteJSON(w, http.StatusBadRequest, models.StatusResponse{Error: "ID da transação é obrigatório."})
        return
    }

    status, err := h.status.GetTransactionStatus(r.Context(), req.TransactionID)
    if err != nil {
        if errors.Is(err, pagloop.ErrUnexpectedStatusResponse) {
            utils.WriteJSON(w, http.StatusInternalServerError, models.StatusResponse{Error: "Resposta de status inesperada."})
            return
        }
        utils.WriteJSON(w, http.StatusInternalServerError, models.StatusResponse{Error: err.Error()})
        return
    }

    utils.WriteJSON(w, http.StatusOK, models.StatusResponse{Status: status})
}

// SessionStatus expõe o estado da sessão ativa (status + cronômetro).
func (h *PaymentHandler) SessionStatus(w http.ResponseWriter, r *http.Request) {
    transactionID := r.URL.Query().Get("transactionId")
    if transactionID == "" {
        utils.SendErrorResponse(w, http.StatusBadRequest, "ID da transação é obrigatório.")
        return
    }

    session, ok := h.orchestrator.Session(transactionID)
    if !ok {
        utils.SendErrorResponse(w, http.StatusNotFound, "Sessão de checkout não encontrada.")
        return
    }

    utils.WriteJSON(w, http.StatusOK, models.SessionResponse{
        TransactionID:    session.TransactionID(),
        Status:           string(session.Status()),
        RemainingSeconds: session.RemainingSeconds(),
        Message:          session.Message(),
    })
}

// DismissSession fecha a confirmação de pagamento. PIX pendente não
// pode ser fechado.
func (h *PaymentHandler) DismissSession(w http.ResponseWriter, r *http.Request) {
    var req struct {
        TransactionID string `json:"transactionId"`
    }
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TransactionID == "" {
        utils.SendErrorResponse(w, http.StatusBadRequest, "ID da transação é obrigatório.")
        return
    }

    err := h.orchestrator.Dismiss(req.TransactionID)
    switch {
    case errors.Is(err, checkout.ErrSessionNotFound):
        utils.SendErrorResponse(w, http.StatusNotFound, "Sessão de checkout não encontrada.")
    case errors.Is(err, checkout.ErrDismissBlocked):
        utils.SendErrorResponse(w, http.StatusConflict, "Aguarde a confirmação do pagamento PIX antes de fechar.")
    case err != nil:
        utils.SendErrorResponse(w, http.StatusInternalServerError, err.Error())
    default:
        utils.SendSuccessResponse(w, models.APIResponse{Status: "success", Message: "Sessão encerrada"})
    }
}
