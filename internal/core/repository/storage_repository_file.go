package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/duynhne/workshop-console/internal/logger"
)

// ErrCorruptDocument is returned by FileStorageRepository.Get when the storage
// file exists but is not a valid document. Set and Remove replace such a file
// with a fresh one, which drops the entries of every origin since none can be
// recovered. The replacement is logged at warn.
var ErrCorruptDocument = errors.New("corrupt storage document")

// document maps origin -> key -> value.
type document map[string]map[string]string

// FileStorageRepository implements domain.KeyValueStore as a single JSON file
// shared by every origin. The file is re-read on every call so edits made by
// another process become visible on the next read.
type FileStorageRepository struct {
	mu     sync.Mutex
	path   string
	origin string
}

// NewFileStorageRepository creates a FileStorageRepository scoped to origin.
func NewFileStorageRepository(path, origin string) *FileStorageRepository {
	return &FileStorageRepository{path: path, origin: origin}
}

func (r *FileStorageRepository) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return "", false, err
	}
	v, ok := doc[r.origin][key]
	return v, ok, nil
}

// Set stores value under key. A corrupt file is replaced.
func (r *FileStorageRepository) Set(ctx context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if errors.Is(err, ErrCorruptDocument) {
		r.warnReplaced(ctx, err)
		doc = document{}
	} else if err != nil {
		return err
	}
	if doc[r.origin] == nil {
		doc[r.origin] = map[string]string{}
	}
	doc[r.origin][key] = value
	return r.save(doc)
}

// Remove deletes key. A missing file or key is not an error.
func (r *FileStorageRepository) Remove(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if errors.Is(err, ErrCorruptDocument) {
		r.warnReplaced(ctx, err)
		return r.save(document{})
	}
	if err != nil {
		return err
	}
	if _, ok := doc[r.origin][key]; !ok {
		return nil
	}
	delete(doc[r.origin], key)
	if len(doc[r.origin]) == 0 {
		delete(doc, r.origin)
	}
	return r.save(doc)
}

func (r *FileStorageRepository) warnReplaced(ctx context.Context, err error) {
	logger.FromContext(ctx).Warn().
		Err(err).
		Str("path", r.path).
		Str("origin", r.origin).
		Msg("Corrupt storage file replaced, entries of all origins dropped")
}

func (r *FileStorageRepository) load() (document, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	if len(data) == 0 {
		return document{}, nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.path, ErrCorruptDocument)
	}
	if doc == nil {
		doc = document{}
	}
	return doc, nil
}

// save writes doc to a temp file in the same directory and renames it over
// the original.
func (r *FileStorageRepository) save(doc document) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".storage-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace %s: %w", r.path, err)
	}
	return nil
}
