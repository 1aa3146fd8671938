package storage

import (
    "context"
    "os"
    "path/filepath"
    "sync"
    "time"

    "github.com/google/uuid"

    "frangoloco-store-api/models"
)

type OrderStore struct {
    mu   sync.Mutex
    path string
    now  func() time.Time
}

func NewOrderStore(dataDir string) *OrderStore {
    return &OrderStore{
        path: filepath.Join(dataDir, "orders.json"),
        now:  time.Now,
    }
}

// GetOrders retorna todos os pedidos, mais recentes primeiro.
func (s *OrderStore) GetOrders() ([]models.Order, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.load()
}

// SaveOrder acrescenta um pedido no topo da lista. O timestamp é
// atribuído aqui, no momento da persistência, e um ID é gerado caso o
// gateway não tenha fornecido um.
func (s *OrderStore) SaveOrder(ctx context.Context, order *models.Order) error {
    s.mu.Lock()
    defer s.mu.Unlock()

    orders, err := s.load()
    if err != nil {
        return err
    }

    saved := *order
    if saved.ID == "" {
        saved.ID = uuid.New().String()
    }
    saved.CreatedAt = s.now().UTC()

    orders = append([]models.Order{saved}, orders...)
    return writeJSON(s.path, orders)
}

func (s *OrderStore) load() ([]models.Order, error) {
    var orders []models.Order
    if err := readJSON(s.path, &orders); err != nil {
        if os.IsNotExist(err) {
            // Primeira execução: cria o arquivo com uma lista vazia.
            if werr := writeJSON(s.path, []models.Order{}); werr != nil {
                return nil, werr
            }
            return []models.Order{}, nil
        }
        return nil, err
    }
    if orders == nil {
        orders = []models.Order{}
    }
    return orders, nil
}
