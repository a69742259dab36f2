package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqli-workshop/connaissance-client/internal/core/domain"
	"github.com/sqli-workshop/connaissance-client/internal/core/ports"
	"github.com/sqli-workshop/connaissance-client/internal/infrastructure/db/dbtest"
)

func newRepo(t *testing.T) *ClientRepository {
	return NewClientRepository(filepath.Join(t.TempDir(), "db.json"))
}

func TestClientRepository_Contract(t *testing.T) {
	dbtest.RunContract(t, func(t *testing.T) ports.ClientRepository { return newRepo(t) })
}

func TestClientRepository_DocumentLayout(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	c := dbtest.Client("client-1", "Dupont", "Jean")
	c.Ligne2 = "   "
	_, err := repo.Create(ctx, c)
	require.NoError(t, err)

	content, err := os.ReadFile(repo.path)
	require.NoError(t, err)

	want := `{
  "connaissance-clients": [
    {
      "id": "client-1",
      "nom": "Dupont",
      "prenom": "Jean",
      "ligne1": "12 rue des Lilas",
      "codePostal": "75001",
      "ville": "Paris",
      "situationFamiliale": "CELIBATAIRE",
      "nombreEnfants": 0
    }
  ]
}`
	assert.Equal(t, want, string(content))
	assert.NotContains(t, string(content), "ligne2")
}

func TestClientRepository_MissingFileIsEmpty(t *testing.T) {
	repo := newRepo(t)

	clients, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, clients)

	_, err = os.Stat(repo.path)
	assert.True(t, os.IsNotExist(err), "reading must not create the file")
}

func TestClientRepository_ReadsExistingDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	seed := `{"connaissance-clients":[
		{"id":"b","nom":"Martin","prenom":"Paul","ligne1":"1 rue A","codePostal":"69001","ville":"Lyon","situationFamiliale":"MARIE","nombreEnfants":1},
		{"id":"a","nom":"Dupont","prenom":"Jean","ligne1":"2 rue B","ligne2":"Bat C","codePostal":"75001","ville":"Paris","situationFamiliale":"VEUF","nombreEnfants":0}
	]}`
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o644))

	clients, err := NewClientRepository(path).List(context.Background())
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "b", clients[0].ID, "insertion order is kept")
	assert.Equal(t, "Bat C", clients[1].Ligne2)
}

func TestClientRepository_CorruptFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	repo := NewClientRepository(path)

	_, err := repo.List(context.Background())
	require.Error(t, err)

	_, err = repo.Create(context.Background(), dbtest.Client("", "Dupont", "Jean"))
	require.Error(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(content), "a corrupt file is never overwritten")
	assert.Error(t, repo.Ping(context.Background()))
}

func TestClientRepository_ConcurrentCreatesAreNotLost(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, dbtest.Client("", "Dupont", "Jean"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	clients, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, clients, 20)
}

func TestClientRepository_NoTemporaryFileLeft(t *testing.T) {
	repo := newRepo(t)
	_, err := repo.Create(context.Background(), dbtest.Client("", "Dupont", "Jean"))
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Dir(repo.path))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "unexpected %s", e.Name())
	}
}

func TestClientRepository_UpdateAdresseDropsBlankLigne2(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	seed := dbtest.Client("client-1", "Dupont", "Jean")
	seed.Ligne2 = "Bat B"
	_, err := repo.Create(ctx, seed)
	require.NoError(t, err)

	updated, err := repo.UpdateAdresse(ctx, "client-1", domain.Adresse{Ligne1: "1 rue A", Ligne2: " ", CodePostal: "75002", Ville: "Paris"})
	require.NoError(t, err)
	assert.Empty(t, updated.Ligne2)
}
