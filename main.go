package main

import (
    "context"
    "encoding/json"
    "fmt"
    "log"
    "net/http"
    "os"
    "os/signal"
    "runtime"
    "syscall"
    "time"

    "github.com/gorilla/mux"

    "frangoloco-store-api/config"
    "frangoloco-store-api/handlers"
    "frangoloco-store-api/middleware"
    "frangoloco-store-api/queue"
    "frangoloco-store-api/services/auth"
    "frangoloco-store-api/services/checkout"
    "frangoloco-store-api/services/payment/pagloop"
    "frangoloco-store-api/storage"
    "frangoloco-store-api/worker"
)

func corsMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.Header().Set("Access-Control-Allow-Origin", "*")
        w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT")
        w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization")

        // Responder imediatamente para OPTIONS
        if r.Method == "OPTIONS" {
            w.WriteHeader(http.StatusOK)
            return
        }
        next.ServeHTTP(w, r)
    })
}

type responseWriter struct {
    http.ResponseWriter
    status int
}

func (rw *responseWriter) WriteHeader(code int) {
    rw.status = code
    rw.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        start := time.Now()

        wrapper := &responseWriter{ResponseWriter: w, status: http.StatusOK}
        next.ServeHTTP(wrapper, r)

        // Registrar apenas requisições lentas ou com erro
        elapsed := time.Since(start)
        if elapsed > 500*time.Millisecond || wrapper.status >= 400 {
            log.Printf(
                "%s %s %s %d %v",
                r.Method,
                r.RequestURI,
                r.RemoteAddr,
                wrapper.status,
                elapsed,
            )
        }
    })
}

func main() {
    log.SetFlags(log.LstdFlags | log.Lshortfile | log.Lmicroseconds | log.LUTC)

    numCPU := runtime.NumCPU()
    runtime.GOMAXPROCS(numCPU)
    log.Printf("Server starting with %d CPUs available", numCPU)

    cfg := config.Load()
    log.Printf("Configuration loaded successfully")

    // Diretório de dados (products.json, orders.json, payment-config.json)
    if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
        log.Fatalf("Failed to create data directory %s: %v", cfg.Storage.DataDir, err)
    }

    productStore := storage.NewProductStore(cfg.Storage.DataDir)
    orderStore := storage.NewOrderStore(cfg.Storage.DataDir)
    configStore := storage.NewConfigStore(cfg.Storage.DataDir)

    // Inicializar fila Redis com retry
    var jobQueue *queue.Queue
    var err error
    for retries := 0; retries < 5; retries++ {
        jobQueue, err = queue.NewQueue(cfg.Redis.URL, "order_jobs")
        if err == nil {
            break
        }
        retryDelay := time.Duration(retries+1) * time.Second
        log.Printf("Failed to connect to Redis (attempt %d/5): %v. Retrying in %v...",
            retries+1, err, retryDelay)
        time.Sleep(retryDelay)
    }
    if err != nil {
        log.Fatalf("Failed to connect to Redis after retries: %v", err)
    }
    defer jobQueue.Close()
    log.Println("Successfully connected to Redis")

    // Gateway Pagloop: credenciais lidas do ConfigStore a cada chamada
    gatewayClient := pagloop.NewClient(configStore, cfg.Gateway.Environment, cfg.Gateway.BaseURL)

    // Orquestrador de checkout com persistência assíncrona de pedidos
    orderSaver := queue.NewOrderSaver(jobQueue, orderStore)
    orchestrator := checkout.New(gatewayClient, orderSaver, checkout.Options{})
    defer orchestrator.Shutdown()

    // Worker de persistência de pedidos
    workerConcurrency := cfg.Redis.WorkerConcurrency
    if workerConcurrency < 2 {
        workerConcurrency = 2
    } else if workerConcurrency > 8 {
        workerConcurrency = 8
    }
    orderWorker := worker.NewWorker(jobQueue, orderStore)
    orderWorker.Start(workerConcurrency)
    defer orderWorker.Stop()
    log.Printf("Started order worker with %d threads", workerConcurrency)

    // Autenticação admin
    authService := auth.NewService(cfg.Admin.JWTSecret, "frangoloco-store-api", cfg.Admin.Username, cfg.Admin.Password)
    sessionAuth := middleware.NewSessionAuth(cfg.Admin.SessionSecret, authService)

    // Handlers
    paymentHandler, err := handlers.NewPaymentHandler(orchestrator, gatewayClient)
    if err != nil {
        log.Fatalf("Failed to initialize payment handler: %v", err)
    }
    productHandler := handlers.NewProductHandler(productStore)
    orderHandler := handlers.NewOrderHandler(orderStore)
    settingsHandler := handlers.NewSettingsHandler(configStore)
    dashboardHandler := handlers.NewDashboardHandler(orderStore)
    authHandler := handlers.NewAuthHandler(authService, sessionAuth)

    rateLimiter := middleware.NewRateLimiter(jobQueue.Client())

    router := mux.NewRouter()
    router.Use(corsMiddleware)
    router.Use(loggingMiddleware)

    api := router.PathPrefix("/api").Subrouter()
    api.Use(rateLimiter.Middleware())

    // Checkout
    api.HandleFunc("/create-payment", paymentHandler.CreatePayment).Methods("POST", "OPTIONS")
    api.HandleFunc("/check-status", paymentHandler.CheckStatus).Methods("POST", "OPTIONS")
    api.HandleFunc("/checkout-session", paymentHandler.SessionStatus).Methods("GET", "OPTIONS")
    api.HandleFunc("/checkout-session/dismiss", paymentHandler.DismissSession).Methods("POST", "OPTIONS")

    // Catálogo
    api.HandleFunc("/products", productHandler.GetProducts).Methods("GET", "OPTIONS")
    api.Handle("/products", sessionAuth.RequireAdmin(http.HandlerFunc(productHandler.SaveProducts))).Methods("POST", "OPTIONS")

    // Painel admin
    api.Handle("/orders", sessionAuth.RequireAdmin(http.HandlerFunc(orderHandler.GetOrders))).Methods("GET", "OPTIONS")
    api.Handle("/settings", sessionAuth.RequireAdmin(http.HandlerFunc(settingsHandler.GetSettings))).Methods("GET", "OPTIONS")
    api.Handle("/settings", sessionAuth.RequireAdmin(http.HandlerFunc(settingsHandler.SaveSettings))).Methods("POST", "OPTIONS")
    api.Handle("/dashboard/summary", sessionAuth.RequireAdmin(http.HandlerFunc(dashboardHandler.Summary))).Methods("GET", "OPTIONS")

    // Autenticação
    api.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
    api.HandleFunc("/auth/verify", authHandler.Verify).Methods("GET", "OPTIONS")
    api.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST", "OPTIONS")

    startTime := time.Now()

    api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
        ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
        defer cancel()

        health := struct {
            Status    string `json:"status"`
            Time      string `json:"time"`
            Redis     string `json:"redis"`
            Uptime    string `json:"uptime"`
            GoVersion string `json:"go_version"`
        }{
            Status:    "ok",
            Time:      time.Now().Format(time.RFC3339),
            Redis:     "connected",
            Uptime:    fmt.Sprintf("%v", time.Since(startTime)),
            GoVersion: runtime.Version(),
        }

        redisCtx, redisCancel := context.WithTimeout(ctx, 500*time.Millisecond)
        defer redisCancel()
        if err := jobQueue.Client().Ping(redisCtx).Err(); err != nil {
            health.Status = "degraded"
            health.Redis = "error"
        }

        w.Header().Set("Content-Type", "application/json")
        json.NewEncoder(w).Encode(health)
    }).Methods("GET")

    srv := &http.Server{
        Addr:           fmt.Sprintf(":%s", cfg.Server.Port),
        Handler:        router,
        ReadTimeout:    15 * time.Second,
        WriteTimeout:   30 * time.Second,
        IdleTimeout:    120 * time.Second,
        MaxHeaderBytes: 1 << 20,
    }

    go func() {
        log.Printf("Server starting on port %s", cfg.Server.Port)
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            log.Fatalf("Server error: %v", err)
        }
    }()

    stop := make(chan os.Signal, 1)
    signal.Notify(stop, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

    <-stop
    log.Println("Shutdown signal received, gracefully shutting down...")

    shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
    defer shutdownCancel()

    log.Println("Shutting down HTTP server...")
    if err := srv.Shutdown(shutdownCtx); err != nil {
        log.Printf("Server forced to shutdown: %v", err)
    }

    // Cancela watchers de PIX pendentes antes de fechar a fila
    log.Println("Cancelling active checkout sessions...")
    orchestrator.Shutdown()

    log.Println("Stopping order worker...")
    orderWorker.Stop()

    log.Println("Closing Redis connections...")
    jobQueue.Close()

    log.Println("Server exited properly")
}
