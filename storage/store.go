package storage

import (
    "encoding/json"
    "fmt"
    "os"
    "path/filepath"
)

// readJSON carrega um documento JSON do disco. Retorna os.ErrNotExist
// encapsulado quando o arquivo ainda não existe.
func readJSON(path string, v interface{}) error {
    data, err := os.ReadFile(path)
    if err != nil {
        return err
    }
    if err := json.Unmarshal(data, v); err != nil {
        return fmt.Errorf("failed to parse %s: %v", filepath.Base(path), err)
    }
    return nil
}

// writeJSON grava de forma atômica (arquivo temporário + rename) para que
// leitores nunca observem um documento parcial.
func writeJSON(path string, v interface{}) error {
    data, err := json.MarshalIndent(v, "", "  ")
    if err != nil {
        return fmt.Errorf("failed to marshal %s: %v", filepath.Base(path), err)
    }

    tmp := path + ".tmp"
    if err := os.WriteFile(tmp, data, 0o644); err != nil {
        return fmt.Errorf("failed to write %s: %v", filepath.Base(tmp), err)
    }
    if err := os.Rename(tmp, path); err != nil {
        os.Remove(tmp)
        return fmt.Errorf("failed to replace %s: %v", filepath.Base(path), err)
    }
    return nil
}
