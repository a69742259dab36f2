package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/sqli-workshop/connaissance-client/internal/core/domain"
)

const keyPrefix = "client:"

func clientKey(id string) []byte {
	return []byte(keyPrefix + id)
}

// ClientRepository stores each record as JSON under "client:<id>". Every
// mutation runs in a single read-write transaction.
type ClientRepository struct {
	db *DB
}

func NewClientRepository(db *DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// List returns every record ordered by nom then prenom.
func (r *ClientRepository) List(_ context.Context) ([]*domain.Client, error) {
	clients := []*domain.Client{}
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var c domain.Client
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &c)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			clients = append(clients, &c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(clients, func(i, j int) bool {
		if clients[i].Nom != clients[j].Nom {
			return clients[i].Nom < clients[j].Nom
		}
		return clients[i].Prenom < clients[j].Prenom
	})
	return clients, nil
}

func (r *ClientRepository) Get(_ context.Context, id string) (*domain.Client, error) {
	var c *domain.Client
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		c, err = get(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ClientRepository) Create(_ context.Context, c *domain.Client) (*domain.Client, error) {
	return r.store(c, true)
}

// Insert reads and writes the key in one transaction. A concurrent writer of
// the same key makes the commit fail with badger.ErrConflict, reported as
// domain.ErrClientExists.
func (r *ClientRepository) Insert(_ context.Context, c *domain.Client) (*domain.Client, error) {
	return r.store(c, false)
}

func (r *ClientRepository) store(c *domain.Client, overwrite bool) (*domain.Client, error) {
	stored := c.Clone()
	stored.Ligne2 = domain.NormalizeLigne2(stored.Ligne2)
	if stored.ID == "" {
		stored.ID = domain.NewID()
	}

	err := r.db.Update(func(txn *badger.Txn) error {
		if !overwrite {
			_, err := get(txn, stored.ID)
			switch {
			case err == nil:
				return domain.ErrClientExists
			case !errors.Is(err, domain.ErrClientNotFound):
				return err
			}
		}
		return put(txn, stored)
	})
	if errors.Is(err, badger.ErrConflict) && !overwrite {
		return nil, domain.ErrClientExists
	}
	if err != nil {
		return nil, err
	}
	return stored, nil
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
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := get(txn, id); err != nil {
			return err
		}
		return txn.Delete(clientKey(id))
	})
}

// Ping runs an empty read transaction.
func (r *ClientRepository) Ping(_ context.Context) error {
	if r.db.IsClosed() {
		return errors.New("badger: database closed")
	}
	return r.db.View(func(*badger.Txn) error { return nil })
}

func (r *ClientRepository) mutate(id string, apply func(*domain.Client)) (*domain.Client, error) {
	var updated *domain.Client
	err := r.db.Update(func(txn *badger.Txn) error {
		stored, err := get(txn, id)
		if err != nil {
			return err
		}
		apply(stored)
		updated = stored
		return put(txn, stored)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func get(txn *badger.Txn, id string) (*domain.Client, error) {
	item, err := txn.Get(clientKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, domain.ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}

	var c domain.Client
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &c)
	}); err != nil {
		return nil, fmt.Errorf("decode client %s: %w", id, err)
	}
	return &c, nil
}

func put(txn *badger.Txn, c *domain.Client) error {
	val, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return txn.Set(clientKey(c.ID), val)
}
