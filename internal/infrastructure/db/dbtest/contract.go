// Package dbtest holds the behaviour every ports.ClientRepository must share.
// Backend packages run it from their own tests.
package dbtest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqli-workshop/connaissance-client/internal/core/domain"
	"github.com/sqli-workshop/connaissance-client/internal/core/ports"
)

// Client returns a valid record with the given identity.
func Client(id, nom, prenom string) *domain.Client {
	return &domain.Client{
		ID:                 id,
		Nom:                nom,
		Prenom:             prenom,
		Ligne1:             "12 rue des Lilas",
		CodePostal:         "75001",
		Ville:              "Paris",
		SituationFamiliale: domain.Celibataire,
		NombreEnfants:      0,
	}
}

// RunContract exercises repo. newRepo must return an empty store each call.
func RunContract(t *testing.T, newRepo func(t *testing.T) ports.ClientRepository) {
	ctx := context.Background()

	t.Run("empty store lists nothing", func(t *testing.T) {
		repo := newRepo(t)
		clients, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, clients)
	})

	t.Run("create assigns an id", func(t *testing.T) {
		repo := newRepo(t)
		created, err := repo.Create(ctx, Client("", "Dupont", "Jean"))
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)

		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, got)
	})

	t.Run("create keeps a supplied id", func(t *testing.T) {
		repo := newRepo(t)
		created, err := repo.Create(ctx, Client("client-1", "Dupont", "Jean"))
		require.NoError(t, err)
		assert.Equal(t, "client-1", created.ID)
	})

	t.Run("create with an existing id replaces the record", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Create(ctx, Client("client-1", "Dupont", "Jean"))
		require.NoError(t, err)
		_, err = repo.Create(ctx, Client("client-1", "Martin", "Paul"))
		require.NoError(t, err)

		clients, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, clients, 1)
		assert.Equal(t, "Martin", clients[0].Nom)
	})

	t.Run("insert assigns an id", func(t *testing.T) {
		repo := newRepo(t)
		created, err := repo.Insert(ctx, Client("", "Dupont", "Jean"))
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)

		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, got)
	})

	t.Run("insert with an existing id keeps the record", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Insert(ctx, Client("client-1", "Dupont", "Jean"))
		require.NoError(t, err)
		_, err = repo.Insert(ctx, Client("client-1", "Martin", "Paul"))
		assert.ErrorIs(t, err, domain.ErrClientExists)

		got, err := repo.Get(ctx, "client-1")
		require.NoError(t, err)
		assert.Equal(t, "Dupont", got.Nom)
	})

	t.Run("concurrent inserts of one id store it once", func(t *testing.T) {
		repo := newRepo(t)

		const writers = 8
		errs := make([]error, writers)
		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = repo.Insert(ctx, Client("same", "Dupont", fmt.Sprintf("Jean%c", 'a'+i)))
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, domain.ErrClientExists)
		}
		assert.Equal(t, 1, succeeded)

		clients, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, clients, 1)
	})

	t.Run("get unknown id", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Get(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrClientNotFound)
	})

	t.Run("update replaces every field but the id", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Create(ctx, Client("client-1", "Dupont", "Jean"))
		require.NoError(t, err)

		next := Client("ignored", "Martin", "Paul")
		next.Ligne2 = "Bat B"
		next.SituationFamiliale = domain.Pacse
		next.NombreEnfants = 3
		updated, err := repo.Update(ctx, "client-1", next)
		require.NoError(t, err)

		assert.Equal(t, "client-1", updated.ID)
		assert.Equal(t, "Martin", updated.Nom)
		assert.Equal(t, "Bat B", updated.Ligne2)
		assert.Equal(t, domain.Pacse, updated.SituationFamiliale)
		assert.Equal(t, 3, updated.NombreEnfants)

		got, err := repo.Get(ctx, "client-1")
		require.NoError(t, err)
		assert.Equal(t, updated, got)

		_, err = repo.Update(ctx, "missing", next)
		assert.ErrorIs(t, err, domain.ErrClientNotFound)
	})

	t.Run("update adresse leaves other fields", func(t *testing.T) {
		repo := newRepo(t)
		seed := Client("client-1", "Dupont", "Jean")
		seed.Ligne2 = "Bat B"
		seed.SituationFamiliale = domain.Marie
		seed.NombreEnfants = 2
		_, err := repo.Create(ctx, seed)
		require.NoError(t, err)

		updated, err := repo.UpdateAdresse(ctx, "client-1", domain.Adresse{
			Ligne1: "3 avenue Foch", CodePostal: "69001", Ville: "Lyon",
		})
		require.NoError(t, err)

		assert.Equal(t, "3 avenue Foch", updated.Ligne1)
		assert.Empty(t, updated.Ligne2)
		assert.Equal(t, "69001", updated.CodePostal)
		assert.Equal(t, "Lyon", updated.Ville)
		assert.Equal(t, "Dupont", updated.Nom)
		assert.Equal(t, domain.Marie, updated.SituationFamiliale)
		assert.Equal(t, 2, updated.NombreEnfants)

		got, err := repo.Get(ctx, "client-1")
		require.NoError(t, err)
		assert.Equal(t, updated, got)

		_, err = repo.UpdateAdresse(ctx, "missing", domain.Adresse{})
		assert.ErrorIs(t, err, domain.ErrClientNotFound)
	})

	t.Run("update situation leaves other fields", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Create(ctx, Client("client-1", "Dupont", "Jean"))
		require.NoError(t, err)

		updated, err := repo.UpdateSituation(ctx, "client-1", domain.Situation{SituationFamiliale: domain.Veuf, NombreEnfants: 4})
		require.NoError(t, err)

		assert.Equal(t, domain.Veuf, updated.SituationFamiliale)
		assert.Equal(t, 4, updated.NombreEnfants)
		assert.Equal(t, "12 rue des Lilas", updated.Ligne1)
		assert.Equal(t, "Jean", updated.Prenom)

		_, err = repo.UpdateSituation(ctx, "missing", domain.Situation{})
		assert.ErrorIs(t, err, domain.ErrClientNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Create(ctx, Client("client-1", "Dupont", "Jean"))
		require.NoError(t, err)
		_, err = repo.Create(ctx, Client("client-2", "Martin", "Paul"))
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, "client-1"))
		_, err = repo.Get(ctx, "client-1")
		assert.ErrorIs(t, err, domain.ErrClientNotFound)

		clients, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, clients, 1)
		assert.Equal(t, "client-2", clients[0].ID)

		assert.ErrorIs(t, repo.Delete(ctx, "client-1"), domain.ErrClientNotFound)
	})

	t.Run("returned records are copies", func(t *testing.T) {
		repo := newRepo(t)
		created, err := repo.Create(ctx, Client("client-1", "Dupont", "Jean"))
		require.NoError(t, err)
		created.Nom = "Changed"

		got, err := repo.Get(ctx, "client-1")
		require.NoError(t, err)
		assert.Equal(t, "Dupont", got.Nom)
	})

	t.Run("ping", func(t *testing.T) {
		repo := newRepo(t)
		assert.NoError(t, repo.Ping(ctx))
	})
}
