// Package file implements the client record store as a single JSON document on disk.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/sqli-workshop/connaissance-client/internal/core/domain"
)

// document is the persisted layout: {"connaissance-clients": [...]}.
type document struct {
	Clients []*domain.Client `json:"connaissance-clients"`
}

// ClientRepository reads the whole document on every call and rewrites it on
// every mutation. mu serializes read-modify-write cycles within the process.
type ClientRepository struct {
	path string
	mu   sync.Mutex
}

func NewClientRepository(path string) *ClientRepository {
	return &ClientRepository{path: path}
}

func (r *ClientRepository) List(_ context.Context) ([]*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	return doc.Clients, nil
}

func (r *ClientRepository) Get(_ context.Context, id string) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	if i := doc.indexOf(id); i >= 0 {
		return doc.Clients[i], nil
	}
	return nil, domain.ErrClientNotFound
}

func (r *ClientRepository) Create(_ context.Context, c *domain.Client) (*domain.Client, error) {
	return r.store(c, true)
}

func (r *ClientRepository) Insert(_ context.Context, c *domain.Client) (*domain.Client, error) {
	return r.store(c, false)
}

func (r *ClientRepository) store(c *domain.Client, overwrite bool) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return nil, err
	}

	stored := c.Clone()
	stored.Ligne2 = domain.NormalizeLigne2(stored.Ligne2)
	if stored.ID == "" {
		stored.ID = domain.NewID()
	}
	if i := doc.indexOf(stored.ID); i >= 0 {
		if !overwrite {
			return nil, domain.ErrClientExists
		}
		doc.Clients[i] = stored
	} else {
		doc.Clients = append(doc.Clients, stored)
	}

	if err := r.save(doc); err != nil {
		return nil, err
	}
	return stored.Clone(), nil
}

func (r *ClientRepository) Update(_ context.Context, id string, c *domain.Client) (*domain.Client, error) {
	return r.mutate(id, func(stored *domain.Client) { stored.Replace(c) })
}

func (r *ClientRepository) UpdateAdresse(_ context.Context, id string, a domain.Adresse) (*domain.Client, error) {
	return r.mutate(id, func(stored *domain.Client) { stored.SetAdresse(a) })
}

func (r *ClientRepository) UpdateSituation(_ context.Context, id string, s domain.Situation) (*domain.Client, error) {
	return r.mutate(id, func(stored *domain.Client) { stored.SetSituation(s) })
}

func (r *ClientRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return err
	}
	i := doc.indexOf(id)
	if i < 0 {
		return domain.ErrClientNotFound
	}
	doc.Clients = append(doc.Clients[:i], doc.Clients[i+1:]...)
	return r.save(doc)
}

// Ping checks that the document can be read.
func (r *ClientRepository) Ping(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.load()
	return err
}

func (r *ClientRepository) mutate(id string, apply func(*domain.Client)) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	i := doc.indexOf(id)
	if i < 0 {
		return nil, domain.ErrClientNotFound
	}
	apply(doc.Clients[i])

	if err := r.save(doc); err != nil {
		return nil, err
	}
	return doc.Clients[i].Clone(), nil
}

// load returns an empty document when the file does not exist yet.
func (r *ClientRepository) load() (*document, error) {
	content, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &document{Clients: []*domain.Client{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}

	var doc document
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.path, err)
	}
	if doc.Clients == nil {
		doc.Clients = []*domain.Client{}
	}
	return &doc, nil
}

// save writes to a temporary file and renames it over the document, so a
// reader sees either the previous or the new content.
func (r *ClientRepository) save(doc *document) error {
	content, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	return os.Rename(tmp, r.path)
}

func (d *document) indexOf(id string) int {
	for i, c := range d.Clients {
		if c.ID == id {
			return i
		}
	}
	return -1
}
