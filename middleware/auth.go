package middleware

import (
    "log"
    "net/http"

    "github.com/gorilla/sessions"

    "frangoloco-store-api/services/auth"
    "frangoloco-store-api/utils"
)

const (
    SessionName = "frangoloco-admin-session"
    tokenKey    = "token"
)

// SessionAuth guarda o token admin num cookie httpOnly e protege as
// rotas do painel.
type SessionAuth struct {
    store *sessions.CookieStore
    jwt   *auth.Service
}

func NewSessionAuth(secret string, jwtService *auth.Service) *SessionAuth {
    store := sessions.NewCookieStore([]byte(secret))
    store.Options = &sessions.Options{
        Path:     "/",
        MaxAge:   86400, // 1 dia
        HttpOnly: true,
        SameSite: http.SameSiteLaxMode,
    }
    return &SessionAuth{store: store, jwt: jwtService}
}

func (a *SessionAuth) SaveToken(w http.ResponseWriter, r *http.Request, token string) error {
    session, _ := a.store.Get(r, SessionName)
    session.Values[tokenKey] = token
    return session.Save(r, w)
}

func (a *SessionAuth) ClearToken(w http.ResponseWriter, r *http.Request) {
    session, _ := a.store.Get(r, SessionName)
    delete(session.Values, tokenKey)
    session.Options.MaxAge = -1
    if err := session.Save(r, w); err != nil {
        log.Printf("Failed to clear admin session: %v", err)
    }
}

// Username devolve o admin autenticado do cookie, validando o token.
func (a *SessionAuth) Username(r *http.Request) (string, error) {
    session, err := a.store.Get(r, SessionName)
    if err != nil {
        return "", auth.ErrInvalidToken
    }
    token, ok := session.Values[tokenKey].(string)
    if !ok || token == "" {
        return "", auth.ErrInvalidToken
    }
    return a.jwt.ValidateToken(token)
}

// RequireAdmin bloqueia a rota para quem não tem sessão admin válida.
func (a *SessionAuth) RequireAdmin(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if _, err := a.Username(r); err != nil {
            log.Printf("Unauthorized admin access attempt from %s: %v", r.RemoteAddr, err)
            utils.SendErrorResponse(w, http.StatusUnauthorized, "Não autorizado")
            return
        }
        next.ServeHTTP(w, r)
    })
}
