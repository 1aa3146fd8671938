package storage

import (
    "os"
    "path/filepath"
    "sync"

    "frangoloco-store-api/models"
)

// ConfigStore persiste as credenciais do gateway em payment-config.json.
type ConfigStore struct {
    mu   sync.Mutex
    path string
}

func NewConfigStore(dataDir string) *ConfigStore {
    return &ConfigStore{path: filepath.Join(dataDir, "payment-config.json")}
}

// Load retorna a configuração atual. No primeiro acesso o arquivo ainda
// não existe; nesse caso o registro padrão (null, null) é criado.
func (s *ConfigStore) Load() (*models.PaymentProviderConfig, error) {
    s.mu.Lock()
    defer s.mu.Unlock()

    var cfg models.PaymentProviderConfig
    if err := readJSON(s.path, &cfg); err != nil {
        if os.IsNotExist(err) {
            def := models.PaymentProviderConfig{}
            if werr := writeJSON(s.path, &def); werr != nil {
                return nil, werr
            }
            return &def, nil
        }
        return nil, err
    }
    return &cfg, nil
}

func (s *ConfigStore) Save(cfg *models.PaymentProviderConfig) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    return writeJSON(s.path, cfg)
}
