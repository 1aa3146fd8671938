package checkout

import (
    "context"
    "errors"
    "fmt"
    "log"
    "sync"
    "time"

    "frangoloco-store-api/models"
    "frangoloco-store-api/services/payment"
    "frangoloco-store-api/services/payment/pagloop"
    "frangoloco-store-api/utils"
)

const (
    DefaultPollInterval   = 3 * time.Second
    DefaultCountdownTick  = time.Second
    DefaultTimeoutSeconds = 120 // 2 minutos para o PIX liquidar

    // DefaultSessionGrace é quanto tempo uma sessão terminal permanece
    // consultável antes de sair do registro. Cobre o checkout abandonado:
    // aba fechada nunca manda dismiss.
    DefaultSessionGrace = 2 * time.Minute
)

var (
    ErrEmptyCart       = errors.New("adicione itens à sua sacola antes de finalizar o pedido")
    ErrInvalidMethod   = errors.New("método de pagamento inválido")
    ErrSessionNotFound = errors.New("sessão de checkout não encontrada")

    // ErrDismissBlocked: enquanto um PIX está pendente a confirmação não
    // pode ser fechada, para não abandonar um pagamento em andamento.
    ErrDismissBlocked = errors.New("aguarde a confirmação do pagamento PIX antes de fechar")
)

// Gateway é o que o orquestrador precisa do client Pagloop.
type Gateway interface {
    CreateTransaction(ctx context.Context, payload *models.PaymentPayload) (*models.TransactionResult, error)
    GetTransactionStatus(ctx context.Context, transactionID string) (string, error)
}

// OrderSaver persiste pedidos concluídos. A gravação é melhor-esforço:
// falha é logada e engolida, nunca reverte um pagamento aprovado.
type OrderSaver interface {
    SaveOrder(ctx context.Context, order *models.Order) error
}

type Options struct {
    PollInterval   time.Duration
    CountdownTick  time.Duration
    TimeoutSeconds int
    SessionGrace   time.Duration
    Clock          Clock
}

// Orchestrator conduz o checkout: monta o payload, cria a transação no
// gateway e, para PIX, observa a liquidação sob o orçamento de 120s.
type Orchestrator struct {
    gateway        Gateway
    orders         OrderSaver
    clock          Clock
    pollInterval   time.Duration
    countdownTick  time.Duration
    timeoutSeconds int
    sessionGrace   time.Duration

    mu       sync.Mutex
    sessions map[string]*Session
}

func New(gateway Gateway, orders OrderSaver, opts Options) *Orchestrator {
    if opts.PollInterval <= 0 {
        opts.PollInterval = DefaultPollInterval
    }
    if opts.CountdownTick <= 0 {
        opts.CountdownTick = DefaultCountdownTick
    }
    if opts.TimeoutSeconds <= 0 {
        opts.TimeoutSeconds = DefaultTimeoutSeconds
    }
    if opts.SessionGrace <= 0 {
        opts.SessionGrace = DefaultSessionGrace
    }
    if opts.Clock == nil {
        opts.Clock = realClock{}
    }

    return &Orchestrator{
        gateway:        gateway,
        orders:         orders,
        clock:          opts.Clock,
        pollInterval:   opts.PollInterval,
        countdownTick:  opts.CountdownTick,
        timeoutSeconds: opts.TimeoutSeconds,
        sessionGrace:   opts.SessionGrace,
        sessions:       make(map[string]*Session),
    }
}

// Submit valida o carrinho e o formulário, cria a transação remota e
// devolve a sessão resultante. PIX entra em "pending" com o watcher
// rodando; cartão de crédito resolve sincronamente em "paid" ou "error".
func (o *Orchestrator) Submit(ctx context.Context, req *models.CheckoutRequest) (*Session, error) {
    if len(req.Items) == 0 {
        return nil, ErrEmptyCart
    }
    if !req.PaymentMethod.IsValid() {
        return nil, ErrInvalidMethod
    }
    if err := payment.ValidateCustomer(req.Customer); err != nil {
        return nil, err
    }
    if req.PaymentMethod == models.MethodCreditCard {
        if err := payment.ValidateCard(req.Card); err != nil {
            return nil, err
        }
    }

    payload := payment.BuildPayload(req)
    if payload.Amount <= 0 {
        return nil, ErrEmptyCart
    }

    result, err := o.gateway.CreateTransaction(ctx, payload)
    if err != nil {
        return nil, err
    }
    if result.TransactionID == "" {
        return nil, errors.New("ID da transação não recebido da Pagloop")
    }

    order := &models.Order{
        ID:    result.TransactionID,
        Total: utils.FromCents(payload.Amount),
        Items: req.Items,
        Customer: models.OrderCustomer{
            Name:  req.Customer.FullName,
            Email: req.Customer.Email,
        },
    }

    session := newSession(result.TransactionID, req.PaymentMethod, o.timeoutSeconds)

    switch req.PaymentMethod {
    case models.MethodPix:
        session.qrCodeText = result.QRCodeText
        session.qrCodeImage = result.QRCodeImageURL
        o.register(session)
        go o.watch(session, order)
        log.Printf("PIX checkout pending for transaction %s, polling every %v with %ds budget",
            result.TransactionID, o.pollInterval, o.timeoutSeconds)

    case models.MethodCreditCard:
        session.gatewayStatus = result.Status
        if result.Status == pagloop.StatusPaid {
            session.transition(models.StatusPaid, "")
            o.persistOrder(order)
        } else {
            // Recusado ou qualquer status diferente do sentinela: falha
            // terminal, sem polling e sem retry.
            session.transition(models.StatusError, fmt.Sprintf("pagamento não aprovado (status: %s)", result.Status))
        }
        o.register(session)
    }

    return session, nil
}

// watch é o laço único que segura os dois timers: o poll de status (3s)
// e o cronômetro regressivo (1s). Um select serializa os dois; quem
// resolver primeiro encerra o laço e, com ele, ambos os timers.
func (o *Orchestrator) watch(s *Session, order *models.Order) {
    poll := o.clock.NewTicker(o.pollInterval)
    defer poll.Stop()
    countdown := o.clock.NewTicker(o.countdownTick)
    defer countdown.Stop()

    for {
        select {
        case <-s.cancel:
            return

        case <-countdown.C():
            if s.countdownTick() {
                if s.transition(models.StatusExpired, "tempo para pagamento esgotado, tente novamente") {
                    log.Printf("PIX payment expired for transaction %s", s.transactionID)
                }
                return
            }

        case <-poll.C():
            status, err := o.gateway.GetTransactionStatus(context.Background(), s.transactionID)
            if err != nil {
                if errors.Is(err, pagloop.ErrUnexpectedStatusResponse) {
                    // Consulta sem campo de status: falha transitória,
                    // continua o polling.
                    log.Printf("Transient status query failure for transaction %s: %v", s.transactionID, err)
                    continue
                }
                if s.transition(models.StatusError, err.Error()) {
                    log.Printf("Status poll failed for transaction %s: %v", s.transactionID, err)
                }
                return
            }
            if status == pagloop.StatusPaid {
                if s.transition(models.StatusPaid, "") {
                    log.Printf("PIX payment confirmed for transaction %s", s.transactionID)
                    o.persistOrder(order)
                }
                return
            }
        }
    }
}

// persistOrder é chamada somente após o estado "paid". O pagamento já
// aconteceu no gateway: falha de gravação é logada, nunca propagada.
func (o *Orchestrator) persistOrder(order *models.Order) {
    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()

    if err := o.orders.SaveOrder(ctx, order); err != nil {
        log.Printf("Failed to persist order %s after successful payment: %v", order.ID, err)
    }
}

func (o *Orchestrator) register(s *Session) {
    o.mu.Lock()
    o.sessions[s.transactionID] = s
    o.mu.Unlock()
    go o.reap(s)
}

// reap remove a sessão do registro depois que ela atinge um estado
// terminal, passada uma janela de graça em que o cliente ainda consegue
// ler o resultado. Sem isso, um checkout abandonado deixaria a entrada
// no mapa pela vida inteira do servidor.
func (o *Orchestrator) reap(s *Session) {
    select {
    case <-s.done:
    case <-s.cancel:
        // Dismiss ou shutdown já limparam o registro.
        return
    }

    grace := o.clock.NewTicker(o.sessionGrace)
    defer grace.Stop()
    select {
    case <-grace.C():
    case <-s.cancel:
    }

    o.mu.Lock()
    delete(o.sessions, s.transactionID)
    o.mu.Unlock()
}

// Session retorna a sessão ativa de uma transação, se houver.
func (o *Orchestrator) Session(transactionID string) (*Session, bool) {
    o.mu.Lock()
    defer o.mu.Unlock()
    s, ok := o.sessions[transactionID]
    return s, ok
}

// Dismiss descarta uma sessão. Para PIX pendente o descarte é bloqueado;
// estados terminais podem ser fechados livremente.
func (o *Orchestrator) Dismiss(transactionID string) error {
    o.mu.Lock()
    s, ok := o.sessions[transactionID]
    o.mu.Unlock()

    if !ok {
        return ErrSessionNotFound
    }
    if s.Method() == models.MethodPix && s.Status() == models.StatusPending {
        return ErrDismissBlocked
    }

    s.Cancel()
    o.mu.Lock()
    delete(o.sessions, transactionID)
    o.mu.Unlock()
    return nil
}

// Shutdown cancela todos os watchers ativos (desligamento do servidor).
func (o *Orchestrator) Shutdown() {
    o.mu.Lock()
    defer o.mu.Unlock()
    for _, s := range o.sessions {
        s.Cancel()
    }
    o.sessions = make(map[string]*Session)
}
