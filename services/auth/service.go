package auth

import (
    "crypto/subtle"
    "errors"
    "fmt"
    "time"

    "github.com/golang-jwt/jwt/v5"
)

// Sessão admin válida por 1 dia, como o cookie do painel.
const TokenDuration = 24 * time.Hour

var (
    ErrInvalidCredentials = errors.New("invalid username or password")
    ErrTokenExpired       = errors.New("token expired")
    ErrInvalidToken       = errors.New("invalid token")
)

// Service autentica o administrador contra a credencial estática da
// configuração e emite tokens HS256 guardados no cookie de sessão.
type Service struct {
    secretKey []byte
    issuer    string
    username  string
    password  string
}

type Claims struct {
    Username string `json:"username"`
    Role     string `json:"role"`
    jwt.RegisteredClaims
}

func NewService(secretKey, issuer, username, password string) *Service {
    return &Service{
        secretKey: []byte(secretKey),
        issuer:    issuer,
        username:  username,
        password:  password,
    }
}

// Authenticate compara a credencial recebida com a estática. Senha não
// configurada desativa o login.
func (s *Service) Authenticate(username, password string) (string, error) {
    if s.password == "" {
        return "", ErrInvalidCredentials
    }

    userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
    passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
    if !userOK || !passOK {
        return "", ErrInvalidCredentials
    }

    return s.GenerateToken(username)
}

func (s *Service) GenerateToken(username string) (string, error) {
    now := time.Now()
    claims := Claims{
        Username: username,
        Role:     "admin",
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   username,
            Issuer:    s.issuer,
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(now.Add(TokenDuration)),
            NotBefore: jwt.NewNumericDate(now),
        },
    }

    token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    return token.SignedString(s.secretKey)
}

// ValidateToken devolve o username do token quando válido.
func (s *Service) ValidateToken(tokenString string) (string, error) {
    token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
        if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
        }
        return s.secretKey, nil
    })
    if err != nil {
        if errors.Is(err, jwt.ErrTokenExpired) {
            return "", ErrTokenExpired
        }
        return "", ErrInvalidToken
    }

    claims, ok := token.Claims.(*Claims)
    if !ok || !token.Valid || claims.Role != "admin" {
        return "", ErrInvalidToken
    }
    return claims.Username, nil
}
