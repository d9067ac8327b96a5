package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alejandrodnm/storearb/internal/domain"
)

// DefaultFilePath es el documento por defecto del backend file.
const DefaultFilePath = "profit_opportunities.json"

// FileStorage implementa ports.SnapshotStore con un único documento JSON.
// Save escribe a un temporal en el mismo directorio y hace rename, así un
// lector nunca ve una escritura parcial.
type FileStorage struct {
	path string
}

// NewFileStorage crea un FileStorage. path vacío usa DefaultFilePath.
func NewFileStorage(path string) *FileStorage {
	if path == "" {
		path = DefaultFilePath
	}
	return &FileStorage{path: path}
}

// Load lee el documento. Si no existe devuelve un set vacío sin error.
func (f *FileStorage) Load(_ context.Context) (domain.OpportunitySet, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.OpportunitySet{}, nil
	}
	if err != nil {
		return domain.OpportunitySet{}, fmt.Errorf("storage.FileStorage.Load: %w: %v", domain.ErrPersistenceRead, err)
	}
	return decodeOpportunities(data)
}

// Save sobreescribe el documento de forma atómica.
func (f *FileStorage) Save(_ context.Context, set domain.OpportunitySet) error {
	data, err := encodeOpportunities(set)
	if err != nil {
		return fmt.Errorf("storage.FileStorage.Save: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".opportunities-*.json")
	if err != nil {
		return fmt.Errorf("storage.FileStorage.Save: create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op tras el rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("storage.FileStorage.Save: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("storage.FileStorage.Save: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage.FileStorage.Save: close: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("storage.FileStorage.Save: rename: %w", err)
	}
	return nil
}

// Close no hace nada; existe para cumplir ports.SnapshotStore.
func (f *FileStorage) Close() error {
	return nil
}

// encodeOpportunities serializa el set como array JSON indentado a 4 espacios.
func encodeOpportunities(set domain.OpportunitySet) ([]byte, error) {
	items := set.Items()
	if items == nil {
		items = []domain.Opportunity{}
	}
	return json.MarshalIndent(items, "", "    ")
}

// decodeOpportunities parsea el documento persistido. Un documento corrupto
// devuelve un set vacío y un error que envuelve domain.ErrPersistenceRead.
func decodeOpportunities(data []byte) (domain.OpportunitySet, error) {
	var items []domain.Opportunity
	if err := json.Unmarshal(data, &items); err != nil {
		return domain.OpportunitySet{}, fmt.Errorf("storage: decode opportunities: %w: %v", domain.ErrPersistenceRead, err)
	}
	return domain.NewOpportunitySet(items...), nil
}
