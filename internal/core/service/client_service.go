package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sqli-workshop/connaissance-client/internal/core/domain"
	"github.com/sqli-workshop/connaissance-client/internal/core/ports"
	"github.com/sqli-workshop/connaissance-client/internal/core/validation"
	"github.com/sqli-workshop/connaissance-client/pkg/logger"
	"github.com/sqli-workshop/connaissance-client/pkg/metrics"
)

// ClientService implements ports.ClientService on top of a record store.
type ClientService struct {
	repo      ports.ClientRepository
	checker   ports.PostalCodeChecker
	publisher ports.AddressEventPublisher
	policy    ports.CreatePolicy
	logger    zerolog.Logger
	now       func() time.Time
}

// Option customises a ClientService.
type Option func(*ClientService)

// WithPostalCodeChecker enables the postal code / city consistency check.
func WithPostalCodeChecker(c ports.PostalCodeChecker) Option {
	return func(s *ClientService) { s.checker = c }
}

// WithAddressEventPublisher enables address change notifications.
func WithAddressEventPublisher(p ports.AddressEventPublisher) Option {
	return func(s *ClientService) { s.publisher = p }
}

// WithCreatePolicy sets how an existing caller-supplied id is handled on create.
func WithCreatePolicy(p ports.CreatePolicy) Option {
	return func(s *ClientService) { s.policy = p }
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *ClientService) { s.now = now }
}

func NewClientService(repo ports.ClientRepository, logger zerolog.Logger, opts ...Option) *ClientService {
	s := &ClientService{
		repo:   repo,
		policy: ports.CreatePolicyReject,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ClientService) ListClients(ctx context.Context) ([]*domain.Client, error) {
	clients, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

func (s *ClientService) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	return s.repo.Get(ctx, id)
}

// CreateClient validates draft and stores it. A draft carrying an id that already
// exists is rejected with domain.ErrClientExists unless the upsert policy is set.
func (s *ClientService) CreateClient(ctx context.Context, draft domain.ClientDraft) (*domain.Client, error) {
	draft = draft.Normalize()
	if err := s.validate(validation.Validate(draft)); err != nil {
		return nil, err
	}

	client := draft.Client()
	if err := s.checkAdresse(ctx, client.Adresse()); err != nil {
		return nil, err
	}

	store := s.repo.Insert
	if s.policy == ports.CreatePolicyUpsert {
		store = s.repo.Create
	}
	created, err := store(ctx, client)
	if errors.Is(err, domain.ErrClientExists) {
		return nil, fmt.Errorf("client %s: %w", draft.ID, err)
	}
	if err != nil {
		s.log(ctx).Error().Err(err).Msg("failed to create client")
		return nil, err
	}
	metrics.ClientsWrittenTotal.WithLabelValues("create").Inc()
	s.log(ctx).Info().Str("client_id", created.ID).Msg("client created")

	s.publish(ctx, created)
	return created, nil
}

// UpdateClient replaces every field of an existing record. The address event is
// only published when the address differs from the stored one.
func (s *ClientService) UpdateClient(ctx context.Context, id string, draft domain.ClientDraft) (*domain.Client, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	draft = draft.Normalize()
	draft.ID = id
	if err := s.validate(validation.Validate(draft)); err != nil {
		return nil, err
	}

	next := draft.Client()
	if err := s.checkAdresse(ctx, next.Adresse()); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, next)
	if err != nil {
		return nil, err
	}
	metrics.ClientsWrittenTotal.WithLabelValues("update").Inc()
	s.log(ctx).Info().Str("client_id", id).Msg("client updated")

	if current.Adresse() != updated.Adresse() {
		s.publish(ctx, updated)
	}
	return updated, nil
}

func (s *ClientService) ChangeAdresse(ctx context.Context, id string, draft domain.AdresseDraft) (*domain.Client, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}

	draft = draft.Normalize()
	if err := s.validate(validation.ValidateAdresse(draft)); err != nil {
		return nil, err
	}

	adresse := draft.Adresse()
	if err := s.checkAdresse(ctx, adresse); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateAdresse(ctx, id, adresse)
	if err != nil {
		return nil, err
	}
	metrics.ClientsWrittenTotal.WithLabelValues("adresse").Inc()
	s.log(ctx).Info().Str("client_id", id).Msg("client address changed")

	s.publish(ctx, updated)
	return updated, nil
}

func (s *ClientService) ChangeSituation(ctx context.Context, id string, draft domain.SituationDraft) (*domain.Client, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}

	if err := s.validate(validation.ValidateSituation(draft)); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateSituation(ctx, id, draft.Situation())
	if err != nil {
		return nil, err
	}
	metrics.ClientsWrittenTotal.WithLabelValues("situation").Inc()
	s.log(ctx).Info().Str("client_id", id).Msg("client situation changed")
	return updated, nil
}

func (s *ClientService) DeleteClient(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	metrics.ClientsWrittenTotal.WithLabelValues("delete").Inc()
	s.log(ctx).Info().Str("client_id", id).Msg("client deleted")
	return nil
}

func (s *ClientService) validate(errs validation.Errors) error {
	if len(errs) == 0 {
		return nil
	}
	metrics.RecordValidationFailures(errs.Fields())
	return errs
}

// checkAdresse rejects a postal code that does not belong to the city. An
// unavailable checker never blocks the write.
func (s *ClientService) checkAdresse(ctx context.Context, a domain.Adresse) error {
	if s.checker == nil {
		return nil
	}
	ok, err := s.checker.Check(ctx, a.CodePostal, a.Ville)
	if err != nil {
		s.log(ctx).Warn().Err(err).
			Str("code_postal", a.CodePostal).
			Str("ville", a.Ville).
			Msg("postal code check unavailable, address accepted")
		return nil
	}
	if !ok {
		return fmt.Errorf("%w: %s %s", domain.ErrInvalidAddress, a.CodePostal, a.Ville)
	}
	return nil
}

func (s *ClientService) publish(ctx context.Context, c *domain.Client) {
	if s.publisher == nil {
		return
	}
	evt := domain.NewAddressChangedEvent(c, s.now())
	evt.CorrelationID = logger.CorrelationID(ctx)
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.log(ctx).Error().Err(err).Str("client_id", c.ID).Msg("failed to publish address event")
	}
}

func (s *ClientService) log(ctx context.Context) *zerolog.Logger {
	l := logger.FromContext(ctx, s.logger)
	return &l
}
