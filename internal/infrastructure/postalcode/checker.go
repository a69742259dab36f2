// Package postalcode checks that a postal code belongs to a city using the
// IGN "API Carto" codes-postaux service.
package postalcode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/sqli-workshop/connaissance-client/pkg/metrics"
)

const (
	defaultTimeout = 3 * time.Second

	breakerMinRequests  = 5
	breakerFailureRatio = 0.3
	breakerOpenTimeout  = 60 * time.Second
	breakerHalfOpenMax  = 3
)

// Cache stores the city names known for a postal code.
type Cache interface {
	Get(ctx context.Context, codePostal string) ([]string, bool, error)
	Set(ctx context.Context, codePostal string, villes []string) error
}

// Config captures the checker settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

type commune struct {
	CodeCommune         string `json:"codeCommune"`
	NomCommune          string `json:"nomCommune"`
	CodePostal          string `json:"codePostal"`
	LibelleAcheminement string `json:"libelleAcheminement"`
}

// Checker implements ports.PostalCodeChecker. Upstream failures are counted by
// a circuit breaker; while the upstream is failing every address is accepted.
type Checker struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	cache   Cache
	log     zerolog.Logger
}

// Option customises a Checker.
type Option func(*Checker)

// WithCache enables lookup caching.
func WithCache(c Cache) Option {
	return func(ch *Checker) { ch.cache = c }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(ch *Checker) { ch.http = c }
}

func NewChecker(cfg Config, log zerolog.Logger, opts ...Option) *Checker {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Checker{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "postal-code-api",
		MaxRequests: breakerHalfOpenMax,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < breakerMinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= breakerFailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check reports whether ville is one of the communes served by codePostal.
// When the upstream API is unavailable the address is accepted.
func (c *Checker) Check(ctx context.Context, codePostal, ville string) (bool, error) {
	villes, err := c.villes(ctx, codePostal)
	if err != nil {
		metrics.PostalCodeChecksTotal.WithLabelValues("fallback").Inc()
		c.log.Warn().Err(err).
			Str("code_postal", codePostal).
			Str("ville", ville).
			Str("breaker_state", c.State()).
			Msg("postal code API unavailable, skipping validation")
		return true, nil
	}

	for _, v := range villes {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(ville)) {
			metrics.PostalCodeChecksTotal.WithLabelValues("valid").Inc()
			return true, nil
		}
	}
	metrics.PostalCodeChecksTotal.WithLabelValues("invalid").Inc()
	return false, nil
}

// State returns the circuit breaker state: "closed", "half-open" or "open".
func (c *Checker) State() string {
	return c.breaker.State().String()
}

func (c *Checker) villes(ctx context.Context, codePostal string) ([]string, error) {
	if c.cache != nil {
		villes, ok, err := c.cache.Get(ctx, codePostal)
		if err != nil {
			c.log.Debug().Err(err).Msg("postal code cache unavailable")
		} else if ok {
			metrics.PostalCodeChecksTotal.WithLabelValues("cached").Inc()
			return villes, nil
		}
	}

	res, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, codePostal)
	})
	if err != nil {
		return nil, err
	}
	villes := res.([]string)

	if c.cache != nil {
		if err := c.cache.Set(ctx, codePostal, villes); err != nil {
			c.log.Debug().Err(err).Msg("postal code cache write failed")
		}
	}
	return villes, nil
}

// fetch calls the API. An unknown postal code yields an empty list, not an error.
func (c *Checker) fetch(ctx context.Context, codePostal string) ([]string, error) {
	endpoint := c.baseURL + "/codes-postaux/communes/" + url.PathEscape(codePostal)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call postal code API: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return []string{}, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("postal code API: unexpected status %d", resp.StatusCode)
	}

	var communes []commune
	if err := json.NewDecoder(resp.Body).Decode(&communes); err != nil {
		return nil, fmt.Errorf("decode postal code API response: %w", err)
	}

	villes := make([]string, 0, 2*len(communes))
	for _, cm := range communes {
		villes = append(villes, cm.NomCommune)
		if cm.LibelleAcheminement != "" && !strings.EqualFold(cm.LibelleAcheminement, cm.NomCommune) {
			villes = append(villes, cm.LibelleAcheminement)
		}
	}
	return villes, nil
}
