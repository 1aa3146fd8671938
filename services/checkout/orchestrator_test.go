package checkout

import (
    "context"
    "errors"
    "sync"
    "testing"
    "time"

    "frangoloco-store-api/models"
    "frangoloco-store-api/services/payment"
    "frangoloco-store-api/services/payment/pagloop"
)

type fakeTicker struct {
    ch chan time.Time
}

func (t *fakeTicker) C() <-chan time.Time { return t.ch }
func (t *fakeTicker) Stop()               {}

// tick bloqueia até o watcher consumir o tick, o que serializa os
// asserts do teste com o laço da sessão.
func (t *fakeTicker) tick() { t.ch <- time.Time{} }

type fakeClock struct {
    created chan *fakeTicker
}

func newFakeClock() *fakeClock {
    return &fakeClock{created: make(chan *fakeTicker, 4)}
}

func (c *fakeClock) Now() time.Time { return time.Unix(0, 0) }

func (c *fakeClock) NewTicker(d time.Duration) Ticker {
    t := &fakeTicker{ch: make(chan time.Time)}
    c.created <- t
    return t
}

type statusReply struct {
    status string
    err    error
}

type fakeGateway struct {
    mu           sync.Mutex
    createResult *models.TransactionResult
    createErr    error
    createCalls  int
    lastPayload  *models.PaymentPayload
    statuses     []statusReply
    statusCalls  int
}

func (g *fakeGateway) CreateTransaction(ctx context.Context, payload *models.PaymentPayload) (*models.TransactionResult, error) {
    g.mu.Lock()
    defer g.mu.Unlock()
    g.createCalls++
    g.lastPayload = payload
    if g.createErr != nil {
        return nil, g.createErr
    }
    return g.createResult, nil
}

func (g *fakeGateway) GetTransactionStatus(ctx context.Context, transactionID string) (string, error) {
    g.mu.Lock()
    defer g.mu.Unlock()
    g.statusCalls++
    if len(g.statuses) == 0 {
        return "waiting_payment", nil
    }
    reply := g.statuses[0]
    if len(g.statuses) > 1 {
        g.statuses = g.statuses[1:]
    }
    return reply.status, reply.err
}

func (g *fakeGateway) countStatusCalls() int {
    g.mu.Lock()
    defer g.mu.Unlock()
    return g.statusCalls
}

type memSaver struct {
    mu     sync.Mutex
    orders []models.Order
}

func (s *memSaver) SaveOrder(ctx context.Context, order *models.Order) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.orders = append(s.orders, *order)
    return nil
}

func (s *memSaver) count() int {
    s.mu.Lock()
    defer s.mu.Unlock()
    return len(s.orders)
}

func pixRequest() *models.CheckoutRequest {
    return &models.CheckoutRequest{
        Customer: models.CustomerForm{
            FullName: "Maria Silva",
            Email:    "maria@example.com",
            Phone:    "(11) 98877-6655",
            Document: "123.456.789-09",
        },
        Items: []models.CartItem{
            {Product: models.Product{ID: "1", Name: "Balde de Frango", Price: 29.90}, Quantity: 1},
        },
        PaymentMethod: models.MethodPix,
    }
}

func cardRequest() *models.CheckoutRequest {
    req := pixRequest()
    req.PaymentMethod = models.MethodCreditCard
    req.Card = &models.CardForm{
        HolderName:  "MARIA SILVA",
        Number:      "4111 1111 1111 1111",
        ExpiryMonth: "12",
        ExpiryYear:  "26",
        CVV:         "123",
    }
    return req
}

func waitFor(t *testing.T, cond func() bool) {
    t.Helper()
    deadline := time.Now().Add(2 * time.Second)
    for time.Now().Before(deadline) {
        if cond() {
            return
        }
        time.Sleep(time.Millisecond)
    }
    t.Fatal("condition not met in time")
}

func waitDone(t *testing.T, s *Session) {
    t.Helper()
    select {
    case <-s.Done():
    case <-time.After(2 * time.Second):
        t.Fatal("session did not reach a terminal state")
    }
}

func newTestOrchestrator(g *fakeGateway, saver *memSaver, clk Clock) *Orchestrator {
    return New(g, saver, Options{Clock: clk})
}

func TestSubmitRejectsEmptyCart(t *testing.T) {
    t.Parallel()

    g := &fakeGateway{}
    o := newTestOrchestrator(g, &memSaver{}, newFakeClock())

    req := pixRequest()
    req.Items = nil

    _, err := o.Submit(context.Background(), req)
    if !errors.Is(err, ErrEmptyCart) {
        t.Fatalf("expected ErrEmptyCart, got %v", err)
    }
    if g.createCalls != 0 {
        t.Fatalf("gateway must not be called for an empty cart, got %d calls", g.createCalls)
    }
}

func TestSubmitRejectsInvalidMethod(t *testing.T) {
    t.Parallel()

    o := newTestOrchestrator(&fakeGateway{}, &memSaver{}, newFakeClock())
    req := pixRequest()
    req.PaymentMethod = "boleto"

    if _, err := o.Submit(context.Background(), req); !errors.Is(err, ErrInvalidMethod) {
        t.Fatalf("expected ErrInvalidMethod, got %v", err)
    }
}

func TestSubmitValidatesCardBeforeGateway(t *testing.T) {
    t.Parallel()

    g := &fakeGateway{}
    o := newTestOrchestrator(g, &memSaver{}, newFakeClock())

    req := cardRequest()
    req.Card.CVV = "9"

    _, err := o.Submit(context.Background(), req)
    var fieldErrs payment.FieldErrors
    if !errors.As(err, &fieldErrs) {
        t.Fatalf("expected FieldErrors, got %v", err)
    }
    if _, ok := fieldErrs["cvv"]; !ok {
        t.Fatalf("expected cvv field error, got %v", fieldErrs)
    }
    if g.createCalls != 0 {
        t.Fatal("gateway must not be called when card validation fails")
    }
}

func TestCreditCardPaidResolvesWithoutPolling(t *testing.T) {
    t.Parallel()

    g := &fakeGateway{createResult: &models.TransactionResult{TransactionID: "tx2", Status: pagloop.StatusPaid}}
    saver := &memSaver{}
    clk := newFakeClock()
    o := newTestOrchestrator(g, saver, clk)

    s, err := o.Submit(context.Background(), cardRequest())
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    waitDone(t, s)

    if got := s.Status(); got != models.StatusPaid {
        t.Fatalf("expected paid, got %s", got)
    }
    if saver.count() != 1 {
        t.Fatalf("expected 1 persisted order, got %d", saver.count())
    }
    if g.countStatusCalls() != 0 {
        t.Fatal("credit card path must never poll")
    }

    // O único timer da sessão de cartão é a janela de graça do registro.
    grace := <-clk.created
    if len(clk.created) != 0 {
        t.Fatal("credit card path must not start poll or countdown timers")
    }
    grace.tick()
    waitFor(t, func() bool { _, ok := o.Session("tx2"); return !ok })
}

func TestCreditCardDeclinedIsTerminalError(t *testing.T) {
    t.Parallel()

    g := &fakeGateway{createResult: &models.TransactionResult{TransactionID: "tx2", Status: "refused"}}
    saver := &memSaver{}
    o := newTestOrchestrator(g, saver, newFakeClock())

    s, err := o.Submit(context.Background(), cardRequest())
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    waitDone(t, s)

    if got := s.Status(); got != models.StatusError {
        t.Fatalf("expected error, got %s", got)
    }
    if s.GatewayStatus() != "refused" {
        t.Fatalf("expected raw gateway status, got %q", s.GatewayStatus())
    }
    if saver.count() != 0 {
        t.Fatal("declined payment must not persist an order")
    }
    if g.countStatusCalls() != 0 {
        t.Fatal("declined card must never start polling")
    }
}

func TestPixHappyPath(t *testing.T) {
    t.Parallel()

    g := &fakeGateway{
        createResult: &models.TransactionResult{
            TransactionID:  "tx1",
            QRCodeText:     "000201abc",
            QRCodeImageURL: "https://quickchart.io/qr?text=000201abc",
        },
        statuses: []statusReply{{status: "waiting_payment"}, {status: pagloop.StatusPaid}},
    }
    saver := &memSaver{}
    clk := newFakeClock()
    o := newTestOrchestrator(g, saver, clk)

    s, err := o.Submit(context.Background(), pixRequest())
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }

    if g.lastPayload.Amount != 2990 {
        t.Fatalf("expected amount 2990 cents, got %d", g.lastPayload.Amount)
    }
    if got := s.Status(); got != models.StatusPending {
        t.Fatalf("expected pending, got %s", got)
    }
    if s.RemainingSeconds() != DefaultTimeoutSeconds {
        t.Fatalf("expected countdown at %d, got %d", DefaultTimeoutSeconds, s.RemainingSeconds())
    }
    if s.QRCodeImageURL() != "https://quickchart.io/qr?text=000201abc" {
        t.Fatalf("unexpected QR image URL %q", s.QRCodeImageURL())
    }

    poll := <-clk.created
    <-clk.created // countdown, não usado neste teste

    poll.tick() // waiting_payment: continua pendente
    poll.tick() // paid
    waitDone(t, s)

    if got := s.Status(); got != models.StatusPaid {
        t.Fatalf("expected paid, got %s", got)
    }
    waitFor(t, func() bool { return saver.count() == 1 })

    saver.mu.Lock()
    order := saver.orders[0]
    saver.mu.Unlock()
    if order.ID != "tx1" {
        t.Fatalf("expected order id tx1, got %s", order.ID)
    }
    if order.Total != 29.90 {
        t.Fatalf("expected total 29.90, got %v", order.Total)
    }
}

func TestPixCountdownExpires(t *testing.T) {
    t.Parallel()

    g := &fakeGateway{
        createResult: &models.TransactionResult{TransactionID: "tx1", QRCodeText: "000201abc", QRCodeImageURL: "x"},
    }
    saver := &memSaver{}
    clk := newFakeClock()
    o := newTestOrchestrator(g, saver, clk)

    s, err := o.Submit(context.Background(), pixRequest())
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }

    <-clk.created // poll, não usado
    countdown := <-clk.created

    for i := 0; i < 5; i++ {
        countdown.tick()
    }
    waitFor(t, func() bool { return s.RemainingSeconds() == DefaultTimeoutSeconds-5 })
    if s.Status() != models.StatusPending {
        t.Fatal("session must stay pending before the budget runs out")
    }

    for i := 5; i < DefaultTimeoutSeconds; i++ {
        countdown.tick()
    }
    waitDone(t, s)

    if got := s.Status(); got != models.StatusExpired {
        t.Fatalf("expected expired, got %s", got)
    }
    if s.RemainingSeconds() != 0 {
        t.Fatalf("expected countdown at 0, got %d", s.RemainingSeconds())
    }
    if saver.count() != 0 {
        t.Fatal("expired payment must not persist an order")
    }
}

func TestPixPollFailureFailsFast(t *testing.T) {
    t.Parallel()

    g := &fakeGateway{
        createResult: &models.TransactionResult{TransactionID: "tx1", QRCodeText: "000201abc", QRCodeImageURL: "x"},
        statuses:     []statusReply{{err: errors.New("connection reset")}},
    }
    saver := &memSaver{}
    clk := newFakeClock()
    o := newTestOrchestrator(g, saver, clk)

    s, err := o.Submit(context.Background(), pixRequest())
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }

    poll := <-clk.created
    <-clk.created

    poll.tick()
    waitDone(t, s)

    if got := s.Status(); got != models.StatusError {
        t.Fatalf("expected error, got %s", got)
    }
    if saver.count() != 0 {
        t.Fatal("failed poll must not persist an order")
    }
}

func TestPixUnexpectedStatusResponseKeepsPolling(t *testing.T) {
    t.Parallel()

    g := &fakeGateway{
        createResult: &models.TransactionResult{TransactionID: "tx1", QRCodeText: "000201abc", QRCodeImageURL: "x"},
        statuses: []statusReply{
            {err: pagloop.ErrUnexpectedStatusResponse},
            {status: pagloop.StatusPaid},
        },
    }
    saver := &memSaver{}
    clk := newFakeClock()
    o := newTestOrchestrator(g, saver, clk)

    s, err := o.Submit(context.Background(), pixRequest())
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }

    poll := <-clk.created
    <-clk.created

    poll.tick() // resposta sem status: tolerada
    if got := s.Status(); got == models.StatusError {
        t.Fatal("unexpected status response must not be terminal")
    }

    poll.tick()
    waitDone(t, s)

    if got := s.Status(); got != models.StatusPaid {
        t.Fatalf("expected paid, got %s", got)
    }
    if g.countStatusCalls() != 2 {
        t.Fatalf("expected 2 status calls, got %d", g.countStatusCalls())
    }
}

func TestDismissRules(t *testing.T) {
    t.Parallel()

    g := &fakeGateway{
        createResult: &models.TransactionResult{TransactionID: "tx1", QRCodeText: "000201abc", QRCodeImageURL: "x"},
        statuses:     []statusReply{{status: pagloop.StatusPaid}},
    }
    clk := newFakeClock()
    o := newTestOrchestrator(g, &memSaver{}, clk)

    s, err := o.Submit(context.Background(), pixRequest())
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }

    if err := o.Dismiss("tx1"); !errors.Is(err, ErrDismissBlocked) {
        t.Fatalf("pending PIX must block dismissal, got %v", err)
    }
    if err := o.Dismiss("unknown"); !errors.Is(err, ErrSessionNotFound) {
        t.Fatalf("expected ErrSessionNotFound, got %v", err)
    }

    poll := <-clk.created
    <-clk.created
    poll.tick()
    waitDone(t, s)

    if err := o.Dismiss("tx1"); err != nil {
        t.Fatalf("terminal session must be dismissible, got %v", err)
    }
    if _, ok := o.Session("tx1"); ok {
        t.Fatal("dismissed session must leave the registry")
    }
}

func TestAbandonedPixSessionLeavesRegistryAfterGrace(t *testing.T) {
    t.Parallel()

    g := &fakeGateway{
        createResult: &models.TransactionResult{TransactionID: "tx1", QRCodeText: "000201abc", QRCodeImageURL: "x"},
    }
    clk := newFakeClock()
    o := newTestOrchestrator(g, &memSaver{}, clk)

    s, err := o.Submit(context.Background(), pixRequest())
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }

    <-clk.created // poll, não usado
    countdown := <-clk.created
    for i := 0; i < DefaultTimeoutSeconds; i++ {
        countdown.tick()
    }
    waitDone(t, s)

    // Dentro da janela de graça o resultado ainda é consultável, mesmo
    // sem nenhum dismiss do cliente.
    if _, ok := o.Session("tx1"); !ok {
        t.Fatal("terminal session must stay readable during the grace window")
    }

    grace := <-clk.created
    grace.tick()
    waitFor(t, func() bool {
        _, ok := o.Session("tx1")
        return !ok
    })
}

func TestSessionSingleTerminalTransition(t *testing.T) {
    t.Parallel()

    s := newSession("tx1", models.MethodPix, 120)

    if !s.transition(models.StatusPaid, "") {
        t.Fatal("first terminal transition must succeed")
    }
    if s.transition(models.StatusExpired, "") {
        t.Fatal("second terminal transition must be a no-op")
    }
    if got := s.Status(); got != models.StatusPaid {
        t.Fatalf("status must stay paid, got %s", got)
    }
    if s.countdownTick() {
        t.Fatal("countdown tick after a terminal state must be a no-op")
    }
}

func TestCountdownExpiresExactlyOnce(t *testing.T) {
    t.Parallel()

    s := newSession("tx1", models.MethodPix, 3)

    for i, want := range []bool{false, false, true} {
        if got := s.countdownTick(); got != want {
            t.Fatalf("tick %d: expected expired=%v, got %v (remaining %d)", i, want, got, s.RemainingSeconds())
        }
    }
    if s.RemainingSeconds() != 0 {
        t.Fatalf("expected remaining 0, got %d", s.RemainingSeconds())
    }
}
