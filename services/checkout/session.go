package checkout

import (
    "sync"

    "frangoloco-store-api/models"
)

// Session é a máquina de estados de uma tentativa de checkout. Vive só
// em memória enquanto a tentativa está ativa; nada sobrevive a um
// restart do servidor.
type Session struct {
    mu sync.Mutex

    transactionID string
    method        models.PaymentMethod
    status        models.CheckoutStatus
    remaining     int
    qrCodeText    string
    qrCodeImage   string
    gatewayStatus string
    message       string

    done       chan struct{}
    cancel     chan struct{}
    cancelOnce sync.Once
}

func newSession(transactionID string, method models.PaymentMethod, remaining int) *Session {
    return &Session{
        transactionID: transactionID,
        method:        method,
        status:        models.StatusPending,
        remaining:     remaining,
        done:          make(chan struct{}),
        cancel:        make(chan struct{}),
    }
}

func (s *Session) TransactionID() string { return s.transactionID }

func (s *Session) Method() models.PaymentMethod { return s.method }

func (s *Session) Status() models.CheckoutStatus {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.status
}

// RemainingSeconds só é significativo enquanto a sessão PIX está
// pendente.
func (s *Session) RemainingSeconds() int {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.remaining
}

func (s *Session) QRCodeText() string { return s.qrCodeText }

func (s *Session) QRCodeImageURL() string { return s.qrCodeImage }

// GatewayStatus é o status bruto devolvido pelo gateway na criação
// (caminho do cartão de crédito).
func (s *Session) GatewayStatus() string {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.gatewayStatus
}

func (s *Session) Message() string {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.message
}

// Done é fechado quando a sessão atinge um estado terminal.
func (s *Session) Done() <-chan struct{} { return s.done }

// Cancel interrompe o watcher sem transição terminal (teardown da view,
// navegação). Ticks que dispararem depois viram no-ops.
func (s *Session) Cancel() {
    s.cancelOnce.Do(func() { close(s.cancel) })
}

// transition move a sessão para um estado terminal. Retorna false se a
// sessão já não estava mais pendente: garante que exatamente uma
// transição terminal é observável, mesmo na corrida entre o poll "paid"
// e o estouro do cronômetro.
func (s *Session) transition(to models.CheckoutStatus, message string) bool {
    s.mu.Lock()
    defer s.mu.Unlock()

    if s.status.Terminal() {
        return false
    }
    s.status = to
    s.message = message
    close(s.done)
    return true
}

// countdownTick decrementa o cronômetro em exatamente 1. Retorna true
// no tick em que o contador chegaria abaixo de zero, nunca antes.
func (s *Session) countdownTick() (expired bool) {
    s.mu.Lock()
    defer s.mu.Unlock()

    if s.status.Terminal() {
        return false
    }
    if s.remaining <= 1 {
        s.remaining = 0
        return true
    }
    s.remaining--
    return false
}
