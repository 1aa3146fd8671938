package storage

import (
    "os"
    "path/filepath"
    "sync"

    "frangoloco-store-api/models"
)

type ProductStore struct {
    mu   sync.Mutex
    path string
}

func NewProductStore(dataDir string) *ProductStore {
    return &ProductStore{path: filepath.Join(dataDir, "products.json")}
}

// GetProducts retorna o catálogo completo. Catálogo inexistente é uma
// loja vazia, não um erro.
func (s *ProductStore) GetProducts() ([]models.Product, error) {
    s.mu.Lock()
    defer s.mu.Unlock()

    var products []models.Product
    if err := readJSON(s.path, &products); err != nil {
        if os.IsNotExist(err) {
            return []models.Product{}, nil
        }
        return nil, err
    }
    if products == nil {
        products = []models.Product{}
    }
    return products, nil
}

// SaveProducts substitui o catálogo inteiro, como o painel admin envia.
func (s *ProductStore) SaveProducts(products []models.Product) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    return writeJSON(s.path, products)
}
