package pagloop

import (
    "bytes"
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "log"
    "net/http"
    "strings"
    "time"

    "frangoloco-store-api/models"
)

const (
    SandboxEndpoint    = "https://sandbox.api.pagloop.com"
    ProductionEndpoint = "https://api.pagloop.com"
    RequestTimeout     = 30 * time.Second

    // StatusPaid é o valor sentinela que a Pagloop usa para sucesso
    // definitivo. Qualquer outro status é tratado como não pago.
    StatusPaid = "paid"
)

var (
    ErrMissingCredentials = errors.New("chaves da Pagloop não configuradas. Acesse /admin/settings para configurar")
    ErrUnauthorized       = errors.New("usuário não autorizado. Verifique se a Public Key e a Secret Key estão corretas no painel de administração")

    // ErrUnexpectedStatusResponse indica uma resposta 2xx sem campo de
    // status em nenhum dos dois formatos. É uma falha de consulta, não
    // uma falha terminal do pagamento.
    ErrUnexpectedStatusResponse = errors.New("resposta de status inesperada da Pagloop")
)

// CredentialSource fornece as credenciais do gateway. O client lê a cada
// chamada, sem cache, para que alterações feitas no painel admin tenham
// efeito imediato.
type CredentialSource interface {
    Load() (*models.PaymentProviderConfig, error)
}

type Client struct {
    creds   CredentialSource
    baseURL string
    client  *http.Client
}

func NewClient(creds CredentialSource, environment, baseURL string) *Client {
    if baseURL == "" {
        if environment == "production" {
            baseURL = ProductionEndpoint
        } else {
            baseURL = SandboxEndpoint
        }
    }

    transport := &http.Transport{
        MaxIdleConns:        100,
        MaxIdleConnsPerHost: 20,
        IdleConnTimeout:     90 * time.Second,
        TLSHandshakeTimeout: 10 * time.Second,
    }

    return &Client{
        creds:   creds,
        baseURL: strings.TrimSuffix(baseURL, "/"),
        client: &http.Client{
            Timeout:   RequestTimeout,
            Transport: transport,
        },
    }
}

func (c *Client) credentials() (publicKey, secretKey string, err error) {
    cfg, err := c.creds.Load()
    if err != nil {
        return "", "", fmt.Errorf("failed to load payment config: %v", err)
    }
    publicKey, secretKey, ok := cfg.Keys()
    if !ok {
        return "", "", ErrMissingCredentials
    }
    return strings.TrimSpace(publicKey), strings.TrimSpace(secretKey), nil
}

// CreateTransaction envia o payload para POST /v1/transactions e
// normaliza a resposta. Para PIX o QR Code bruto é obrigatório e a URL
// da imagem é derivada aqui.
func (c *Client) CreateTransaction(ctx context.Context, payload *models.PaymentPayload) (*models.TransactionResult, error) {
    publicKey, secretKey, err := c.credentials()
    if err != nil {
        return nil, err
    }

    body, err := json.Marshal(payload)
    if err != nil {
        return nil, fmt.Errorf("error marshaling transaction request: %v", err)
    }

    req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/transactions", bytes.NewBuffer(body))
    if err != nil {
        return nil, fmt.Errorf("error creating request: %v", err)
    }
    req.Header.Set("Content-Type", "application/json")
    req.Header.Set("Accept", "application/json")
    req.SetBasicAuth(publicKey, secretKey)

    startTime := time.Now()
    resp, err := c.client.Do(req)
    if err != nil {
        return nil, fmt.Errorf("error making request: %v", err)
    }
    defer resp.Body.Close()

    respBody, err := io.ReadAll(resp.Body)
    if err != nil {
        return nil, fmt.Errorf("error reading response body: %v", err)
    }

    log.Printf("Pagloop create-transaction response received in %v (HTTP %d)", time.Since(startTime), resp.StatusCode)

    var tx transactionResponse
    if err := json.Unmarshal(respBody, &tx); err != nil {
        return nil, fmt.Errorf("error decoding response: %v, response body: %s", err, string(respBody))
    }

    if resp.StatusCode < 200 || resp.StatusCode > 299 {
        if resp.StatusCode == http.StatusUnauthorized {
            return nil, ErrUnauthorized
        }
        if msg := tx.errorText(); msg != "" {
            return nil, errors.New(msg)
        }
        return nil, errors.New("erro ao criar a transação. Verifique as credenciais e os dados enviados")
    }

    transactionID := tx.transactionID()
    if transactionID == "" {
        return nil, errors.New("ID da transação não recebido da Pagloop")
    }

    switch payload.PaymentMethod {
    case models.MethodPix:
        qrCodeText := tx.pixQRCode()
        if qrCodeText == "" {
            return nil, errors.New("QR Code PIX não recebido da Pagloop")
        }
        return &models.TransactionResult{
            TransactionID:  transactionID,
            QRCodeText:     qrCodeText,
            QRCodeImageURL: QRImageURL(qrCodeText),
        }, nil
    case models.MethodCreditCard:
        return &models.TransactionResult{
            TransactionID: transactionID,
            Status:        tx.transactionStatus(),
        }, nil
    default:
        return nil, fmt.Errorf("método de pagamento não suportado na resposta: %s", payload.PaymentMethod)
    }
}

// GetTransactionStatus consulta GET /v1/transactions/{id}. É uma leitura
// pura, sem efeitos colaterais, segura de repetir.
func (c *Client) GetTransactionStatus(ctx context.Context, transactionID string) (string, error) {
    publicKey, secretKey, err := c.credentials()
    if err != nil {
        return "", err
    }

    req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/transactions/"+transactionID, nil)
    if err != nil {
        return "", fmt.Errorf("error creating status request: %v", err)
    }
    req.Header.Set("Accept", "application/json")
    req.SetBasicAuth(publicKey, secretKey)

    resp, err := c.client.Do(req)
    if err != nil {
        return "", fmt.Errorf("error making status request: %v", err)
    }
    defer resp.Body.Close()

    respBody, err := io.ReadAll(resp.Body)
    if err != nil {
        return "", fmt.Errorf("error reading status response body: %v", err)
    }

    var tx transactionResponse
    if err := json.Unmarshal(respBody, &tx); err != nil {
        return "", fmt.Errorf("error decoding status response: %v, response body: %s", err, string(respBody))
    }

    if resp.StatusCode < 200 || resp.StatusCode > 299 {
        if resp.StatusCode == http.StatusUnauthorized {
            return "", ErrUnauthorized
        }
        if msg := tx.errorText(); msg != "" {
            return "", errors.New(msg)
        }
        return "", errors.New("erro ao verificar o status da transação")
    }

    status := tx.transactionStatus()
    if status == "" {
        log.Printf("Pagloop returned a status response without status field for transaction %s", transactionID)
        return "", ErrUnexpectedStatusResponse
    }
    return status, nil
}
