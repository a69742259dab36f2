package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sqli-workshop/connaissance-client/internal/core/domain"
	"github.com/sqli-workshop/connaissance-client/internal/core/ports"
	"github.com/sqli-workshop/connaissance-client/internal/core/validation"
	"github.com/sqli-workshop/connaissance-client/internal/infrastructure/db/memory"
	"github.com/sqli-workshop/connaissance-client/pkg/logger"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubClientRepo struct {
	byID      map[string]*domain.Client
	createErr error // if set, Create and Insert return this error
	calls     []string
}

func newStubClientRepo(seed ...*domain.Client) *stubClientRepo {
	r := &stubClientRepo{byID: make(map[string]*domain.Client)}
	for _, c := range seed {
		r.byID[c.ID] = c.Clone()
	}
	return r
}

func (r *stubClientRepo) List(_ context.Context) ([]*domain.Client, error) {
	r.calls = append(r.calls, "List")
	out := make([]*domain.Client, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c.Clone())
	}
	return out, nil
}

func (r *stubClientRepo) Get(_ context.Context, id string) (*domain.Client, error) {
	r.calls = append(r.calls, "Get")
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	return c.Clone(), nil
}

func (r *stubClientRepo) Create(_ context.Context, c *domain.Client) (*domain.Client, error) {
	r.calls = append(r.calls, "Create")
	if r.createErr != nil {
		return nil, r.createErr
	}
	clone := c.Clone()
	if clone.ID == "" {
		clone.ID = domain.NewID()
	}
	r.byID[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *stubClientRepo) Insert(_ context.Context, c *domain.Client) (*domain.Client, error) {
	r.calls = append(r.calls, "Insert")
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, ok := r.byID[c.ID]; ok {
		return nil, domain.ErrClientExists
	}
	clone := c.Clone()
	if clone.ID == "" {
		clone.ID = domain.NewID()
	}
	r.byID[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *stubClientRepo) Update(_ context.Context, id string, c *domain.Client) (*domain.Client, error) {
	r.calls = append(r.calls, "Update")
	stored, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	stored.Replace(c)
	return stored.Clone(), nil
}

func (r *stubClientRepo) UpdateAdresse(_ context.Context, id string, a domain.Adresse) (*domain.Client, error) {
	r.calls = append(r.calls, "UpdateAdresse")
	stored, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	stored.SetAdresse(a)
	return stored.Clone(), nil
}

func (r *stubClientRepo) UpdateSituation(_ context.Context, id string, s domain.Situation) (*domain.Client, error) {
	r.calls = append(r.calls, "UpdateSituation")
	stored, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	stored.SetSituation(s)
	return stored.Clone(), nil
}

func (r *stubClientRepo) Delete(_ context.Context, id string) error {
	r.calls = append(r.calls, "Delete")
	if _, ok := r.byID[id]; !ok {
		return domain.ErrClientNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubClientRepo) Ping(_ context.Context) error { return nil }

func (r *stubClientRepo) called(name string) bool {
	for _, c := range r.calls {
		if c == name {
			return true
		}
	}
	return false
}

type stubChecker struct {
	valid bool
	err   error
	calls int
}

func (c *stubChecker) Check(_ context.Context, _, _ string) (bool, error) {
	c.calls++
	return c.valid, c.err
}

type recordingPublisher struct {
	events []domain.AddressChangedEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt domain.AddressChangedEvent) error {
	p.events = append(p.events, evt)
	return p.err
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

var fixedNow = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

func intPtr(n int) *int { return &n }

func validDraft() domain.ClientDraft {
	return domain.ClientDraft{
		Nom:                "Dupont",
		Prenom:             "Jean",
		Ligne1:             "12 rue des Lilas",
		CodePostal:         "75001",
		Ville:              "Paris",
		SituationFamiliale: "MARIE",
		NombreEnfants:      intPtr(2),
	}
}

func storedClient(id string) *domain.Client {
	d := validDraft()
	d.ID = id
	return d.Client()
}

func newTestService(repo ports.ClientRepository, opts ...Option) (*ClientService, *recordingPublisher) {
	pub := &recordingPublisher{}
	opts = append([]Option{WithAddressEventPublisher(pub), WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewClientService(repo, discardLogger, opts...), pub
}

// ---------------------------------------------------------------------------
// CreateClient tests
// ---------------------------------------------------------------------------

func TestClientService_Create_Success(t *testing.T) {
	repo := newStubClientRepo()
	svc, pub := newTestService(repo)

	created, err := svc.CreateClient(context.Background(), validDraft())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected an id to be assigned")
	}
	if _, ok := repo.byID[created.ID]; !ok {
		t.Errorf("client %s not stored", created.ID)
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected 1 address event, got %d", len(pub.events))
	}
	evt := pub.events[0]
	if evt.ClientID != created.ID || evt.Destinataire != "Dupont Jean" || !evt.OccurredAt.Equal(fixedNow) {
		t.Errorf("unexpected event: %+v", evt)
	}
}

func TestClientService_Create_InvalidDraft_NotStored(t *testing.T) {
	repo := newStubClientRepo()
	svc, pub := newTestService(repo)

	draft := validDraft()
	draft.CodePostal = "123"
	draft.NombreEnfants = nil

	_, err := svc.CreateClient(context.Background(), draft)

	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation.Errors, got %v", err)
	}
	if len(verrs) != 2 {
		t.Errorf("expected 2 violations, got %d: %v", len(verrs), verrs)
	}
	if repo.called("Create") || repo.called("Insert") {
		t.Error("store must not be called for an invalid draft")
	}
	if len(pub.events) != 0 {
		t.Error("no event expected for a rejected create")
	}
}

func TestClientService_Create_CallerIDIsValidated(t *testing.T) {
	repo := newStubClientRepo()
	svc, _ := newTestService(repo)

	draft := validDraft()
	draft.ID = "client-1"
	draft.Nom = "X"

	if _, err := svc.CreateClient(context.Background(), draft); err == nil {
		t.Fatal("expected validation error even when an id is supplied")
	}
	if len(repo.byID) != 0 {
		t.Error("nothing should be stored")
	}
}

func TestClientService_Create_ExistingID_Rejected(t *testing.T) {
	repo := newStubClientRepo(storedClient("client-1"))
	svc, _ := newTestService(repo)

	draft := validDraft()
	draft.ID = "client-1"
	draft.Nom = "Martin"

	_, err := svc.CreateClient(context.Background(), draft)
	if !errors.Is(err, domain.ErrClientExists) {
		t.Fatalf("expected ErrClientExists, got %v", err)
	}
	if repo.byID["client-1"].Nom != "Dupont" {
		t.Error("existing record must be untouched")
	}
}

func TestClientService_Create_ExistingID_UpsertPolicy(t *testing.T) {
	repo := newStubClientRepo(storedClient("client-1"))
	svc, _ := newTestService(repo, WithCreatePolicy(ports.CreatePolicyUpsert))

	draft := validDraft()
	draft.ID = "client-1"
	draft.Nom = "Martin"

	created, err := svc.CreateClient(context.Background(), draft)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != "client-1" || repo.byID["client-1"].Nom != "Martin" {
		t.Errorf("expected record replaced, got %+v", repo.byID["client-1"])
	}
	if len(repo.byID) != 1 {
		t.Errorf("expected 1 record, got %d", len(repo.byID))
	}
}

func TestClientService_Create_WhitespaceLigne2Dropped(t *testing.T) {
	repo := newStubClientRepo()
	svc, _ := newTestService(repo)

	draft := validDraft()
	draft.Ligne2 = "   "

	created, err := svc.CreateClient(context.Background(), draft)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.byID[created.ID].Ligne2 != "" {
		t.Errorf("expected empty ligne2, got %q", repo.byID[created.ID].Ligne2)
	}
}

func TestClientService_Create_RepoError(t *testing.T) {
	repo := newStubClientRepo()
	repo.createErr = errors.New("disk full")
	svc, pub := newTestService(repo)

	if _, err := svc.CreateClient(context.Background(), validDraft()); err == nil {
		t.Fatal("expected error when repo fails, got nil")
	}
	if len(pub.events) != 0 {
		t.Error("no event expected when the write fails")
	}
}

func TestClientService_Create_PublishFailureIgnored(t *testing.T) {
	repo := newStubClientRepo()
	svc, pub := newTestService(repo)
	pub.err = errors.New("queue closed")

	if _, err := svc.CreateClient(context.Background(), validDraft()); err != nil {
		t.Fatalf("publish failure must not fail the request: %v", err)
	}
}

func TestClientService_Create_CarriesCorrelationID(t *testing.T) {
	repo := newStubClientRepo()
	svc, pub := newTestService(repo)

	ctx := logger.WithCorrelationID(context.Background(), "corr-42")
	if _, err := svc.CreateClient(ctx, validDraft()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pub.events[0].CorrelationID != "corr-42" {
		t.Errorf("expected correlation id corr-42, got %q", pub.events[0].CorrelationID)
	}
}

// ---------------------------------------------------------------------------
// Postal code check tests
// ---------------------------------------------------------------------------

func TestClientService_Create_PostalCodeMismatch(t *testing.T) {
	repo := newStubClientRepo()
	svc, _ := newTestService(repo, WithPostalCodeChecker(&stubChecker{valid: false}))

	_, err := svc.CreateClient(context.Background(), validDraft())
	if !errors.Is(err, domain.ErrInvalidAddress) {
		t.Fatalf("expected ErrInvalidAddress, got %v", err)
	}
	if repo.called("Create") || repo.called("Insert") {
		t.Error("store must not be called for an invalid address")
	}
}

func TestClientService_Create_PostalCheckerUnavailable_Accepts(t *testing.T) {
	repo := newStubClientRepo()
	svc, _ := newTestService(repo, WithPostalCodeChecker(&stubChecker{err: errors.New("timeout")}))

	if _, err := svc.CreateClient(context.Background(), validDraft()); err != nil {
		t.Fatalf("unavailable checker must not block the write: %v", err)
	}
}

func TestClientService_ChangeSituation_SkipsPostalCheck(t *testing.T) {
	repo := newStubClientRepo(storedClient("client-1"))
	checker := &stubChecker{valid: false}
	svc, _ := newTestService(repo, WithPostalCodeChecker(checker))

	_, err := svc.ChangeSituation(context.Background(), "client-1", domain.SituationDraft{SituationFamiliale: "VEUF", NombreEnfants: intPtr(0)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if checker.calls != 0 {
		t.Errorf("expected no postal check, got %d", checker.calls)
	}
}

// ---------------------------------------------------------------------------
// UpdateClient tests
// ---------------------------------------------------------------------------

func TestClientService_Update_KeepsID(t *testing.T) {
	repo := newStubClientRepo(storedClient("client-1"))
	svc, pub := newTestService(repo)

	draft := validDraft()
	draft.ID = "other-id"
	draft.Prenom = "Paul"

	updated, err := svc.UpdateClient(context.Background(), "client-1", draft)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ID != "client-1" || updated.Prenom != "Paul" {
		t.Errorf("unexpected record: %+v", updated)
	}
	if len(pub.events) != 0 {
		t.Errorf("address unchanged, expected no event, got %d", len(pub.events))
	}
}

func TestClientService_Update_AddressChangePublishes(t *testing.T) {
	repo := newStubClientRepo(storedClient("client-1"))
	svc, pub := newTestService(repo)

	draft := validDraft()
	draft.Ville = "Lyon"
	draft.CodePostal = "69001"

	if _, err := svc.UpdateClient(context.Background(), "client-1", draft); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.events) != 1 || pub.events[0].Adresse.Ville != "Lyon" {
		t.Errorf("expected one event for the new address, got %+v", pub.events)
	}
}

func TestClientService_Update_NotFoundBeforeValidation(t *testing.T) {
	repo := newStubClientRepo()
	svc, _ := newTestService(repo)

	_, err := svc.UpdateClient(context.Background(), "missing", domain.ClientDraft{})
	if !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Partial update tests
// ---------------------------------------------------------------------------

func TestClientService_ChangeAdresse_OnlyAddress(t *testing.T) {
	repo := newStubClientRepo(storedClient("client-1"))
	svc, pub := newTestService(repo)

	updated, err := svc.ChangeAdresse(context.Background(), "client-1", domain.AdresseDraft{
		Ligne1: "3 avenue Foch", Ligne2: "Bat C", CodePostal: "69001", Ville: "Lyon",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Nom != "Dupont" || updated.SituationFamiliale != domain.Marie || updated.NombreEnfants != 2 {
		t.Errorf("non-address fields changed: %+v", updated)
	}
	if updated.Ligne2 != "Bat C" || updated.Ville != "Lyon" {
		t.Errorf("address not applied: %+v", updated)
	}
	if len(pub.events) != 1 {
		t.Errorf("expected 1 event, got %d", len(pub.events))
	}
}

func TestClientService_ChangeAdresse_NotFoundShortCircuits(t *testing.T) {
	repo := newStubClientRepo()
	svc, _ := newTestService(repo)

	_, err := svc.ChangeAdresse(context.Background(), "missing", domain.AdresseDraft{})
	if !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
	if repo.called("UpdateAdresse") {
		t.Error("store update must not be called")
	}
}

func TestClientService_ChangeAdresse_Invalid(t *testing.T) {
	repo := newStubClientRepo(storedClient("client-1"))
	svc, pub := newTestService(repo)

	_, err := svc.ChangeAdresse(context.Background(), "client-1", domain.AdresseDraft{Ligne1: "x", CodePostal: "75001", Ville: "Paris"})
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation.Errors, got %v", err)
	}
	if repo.byID["client-1"].Ligne1 != "12 rue des Lilas" {
		t.Error("stored address must be unchanged")
	}
	if len(pub.events) != 0 {
		t.Error("no event expected")
	}
}

func TestClientService_ChangeSituation_OnlySituation(t *testing.T) {
	repo := newStubClientRepo(storedClient("client-1"))
	svc, pub := newTestService(repo)

	updated, err := svc.ChangeSituation(context.Background(), "client-1", domain.SituationDraft{SituationFamiliale: "DIVORCE", NombreEnfants: intPtr(0)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.SituationFamiliale != domain.Divorce || updated.NombreEnfants != 0 {
		t.Errorf("situation not applied: %+v", updated)
	}
	if updated.Ligne1 != "12 rue des Lilas" {
		t.Errorf("address changed: %+v", updated)
	}
	if len(pub.events) != 0 {
		t.Error("situation change must not publish an address event")
	}
}

func TestClientService_ChangeSituation_MissingChildren(t *testing.T) {
	repo := newStubClientRepo(storedClient("client-1"))
	svc, _ := newTestService(repo)

	_, err := svc.ChangeSituation(context.Background(), "client-1", domain.SituationDraft{SituationFamiliale: "VEUF"})
	var verrs validation.Errors
	if !errors.As(err, &verrs) || verrs[0].Field != validation.FieldNombreEnfants {
		t.Fatalf("expected nombreEnfants violation, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Read / delete tests
// ---------------------------------------------------------------------------

func TestClientService_Delete(t *testing.T) {
	repo := newStubClientRepo(storedClient("client-1"))
	svc, _ := newTestService(repo)

	if err := svc.DeleteClient(context.Background(), "client-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetClient(context.Background(), "client-1"); !errors.Is(err, domain.ErrClientNotFound) {
		t.Errorf("expected ErrClientNotFound after delete, got %v", err)
	}
	if err := svc.DeleteClient(context.Background(), "client-1"); !errors.Is(err, domain.ErrClientNotFound) {
		t.Errorf("expected ErrClientNotFound on second delete, got %v", err)
	}
}

func TestClientService_List(t *testing.T) {
	repo := newStubClientRepo(storedClient("a"), storedClient("b"))
	svc, _ := newTestService(repo)

	clients, err := svc.ListClients(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clients) != 2 {
		t.Errorf("expected 2 clients, got %d", len(clients))
	}
}

func TestClientService_Create_StoreErrorIsNotAConflict(t *testing.T) {
	repo := newStubClientRepo()
	repo.createErr = errors.New("store offline")
	svc, _ := newTestService(repo)

	draft := validDraft()
	draft.ID = "client-1"
	if _, err := svc.CreateClient(context.Background(), draft); err == nil || errors.Is(err, domain.ErrClientExists) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestClientService_Create_PolicySelectsStoreCall(t *testing.T) {
	reject := newStubClientRepo()
	svc, _ := newTestService(reject)
	if _, err := svc.CreateClient(context.Background(), validDraft()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reject.called("Insert") || reject.called("Create") || reject.called("Get") {
		t.Errorf("reject policy: expected a single Insert, got %v", reject.calls)
	}

	upsert := newStubClientRepo()
	svc, _ = newTestService(upsert, WithCreatePolicy(ports.CreatePolicyUpsert))
	if _, err := svc.CreateClient(context.Background(), validDraft()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !upsert.called("Create") || upsert.called("Insert") {
		t.Errorf("upsert policy: expected Create, got %v", upsert.calls)
	}
}

func TestClientService_Create_ConcurrentSameID(t *testing.T) {
	svc := NewClientService(memory.NewClientRepository(), discardLogger)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			draft := validDraft()
			draft.ID = "same"
			_, err := svc.CreateClient(context.Background(), draft)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrClientExists):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 || conflicts != attempts-1 {
		t.Fatalf("expected 1 create and %d conflicts, got %d and %d", attempts-1, succeeded, conflicts)
	}
}
