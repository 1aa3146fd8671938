package middleware

import (
    "context"
    "fmt"
    "log"
    "net"
    "net/http"
    "strconv"
    "time"

    "github.com/go-redis/redis/v8"

    "frangoloco-store-api/utils"
)

type RateLimiter struct {
    client *redis.Client
}

type RateLimitConfig struct {
    Requests int
    Window   time.Duration
    Message  string
}

// Limites por rota; login apertado contra força bruta, create-payment
// contra marteladas no gateway.
var defaultConfigs = map[string]RateLimitConfig{
    "/api/auth/login": {
        Requests: 5,
        Window:   15 * time.Minute,
        Message:  "Muitas tentativas de login. Tente novamente em 15 minutos.",
    },
    "/api/create-payment": {
        Requests: 10,
        Window:   time.Minute,
        Message:  "Muitas tentativas de pagamento. Aguarde um minuto.",
    },
    "default": {
        Requests: 120,
        Window:   time.Minute,
        Message:  "Limite de requisições excedido.",
    },
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
    return &RateLimiter{client: client}
}

func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            cfg, ok := defaultConfigs[r.URL.Path]
            if !ok {
                cfg = defaultConfigs["default"]
            }

            key := fmt.Sprintf("ratelimit:%s:%s", r.URL.Path, clientIP(r))
            ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
            defer cancel()

            // SETNX e INCR na mesma transação: a chave nasce com TTL e
            // nunca fica órfã de expiração se o processo cair no meio.
            pipe := rl.client.TxPipeline()
            pipe.SetNX(ctx, key, 0, cfg.Window)
            incr := pipe.Incr(ctx, key)
            if _, err := pipe.Exec(ctx); err != nil {
                // Redis fora do ar não derruba a loja.
                log.Printf("Rate limiter unavailable, allowing request: %v", err)
                next.ServeHTTP(w, r)
                return
            }
            count := incr.Val()

            remaining := cfg.Requests - int(count)
            if remaining < 0 {
                remaining = 0
            }
            w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))
            w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

            if int(count) > cfg.Requests {
                log.Printf("Rate limit exceeded for %s on %s", clientIP(r), r.URL.Path)
                utils.SendErrorResponse(w, http.StatusTooManyRequests, cfg.Message)
                return
            }

            next.ServeHTTP(w, r)
        })
    }
}

func clientIP(r *http.Request) string {
    if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
        return fwd
    }
    host, _, err := net.SplitHostPort(r.RemoteAddr)
    if err != nil {
        return r.RemoteAddr
    }
    return host
}
