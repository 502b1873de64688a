package sources

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"namecard/internal/domain"
)

type APIConfig struct {
	BaseURL     string
	ProfilePath string
	CardPath    string
	Timeout     time.Duration
}

// APIClient reads profiles and cards from the upstream REST API. The
// caller's bearer token is forwarded on every request.
type APIClient struct {
	client      *resty.Client
	profilePath string
	cardPath    string
}

type profileEnvelope struct {
	Data *domain.Profile `json:"data"`
}

type cardEnvelope struct {
	Card *domain.Card `json:"card"`
}

func NewAPIClient(cfg APIConfig) *APIClient {
	c := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		c.SetTimeout(cfg.Timeout)
	}
	return &APIClient{
		client:      c,
		profilePath: cfg.ProfilePath,
		cardPath:    cfg.CardPath,
	}
}

func (a *APIClient) Profile(ctx context.Context, token string) (*domain.Profile, error) {
	var env profileEnvelope
	resp, err := a.request(ctx, token).
		SetResult(&env).
		Get(a.profilePath)
	if err := checkResponse(resp, err, "profile"); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, fmt.Errorf("profile: empty response: %w", domain.ErrNotFound)
	}
	return env.Data, nil
}

func (a *APIClient) Card(ctx context.Context, token string, id uuid.UUID) (*domain.Card, error) {
	var env cardEnvelope
	resp, err := a.request(ctx, token).
		SetPathParam("id", id.String()).
		SetResult(&env).
		Get(a.cardPath)
	if err := checkResponse(resp, err, "card "+id.String()); err != nil {
		return nil, err
	}
	if env.Card == nil {
		return nil, fmt.Errorf("card %s: empty response: %w", id, domain.ErrNotFound)
	}
	if env.Card.ID == uuid.Nil {
		env.Card.ID = id
	}
	return env.Card, nil
}

func (a *APIClient) request(ctx context.Context, token string) *resty.Request {
	r := a.client.R().SetContext(ctx)
	if token != "" {
		r.SetAuthToken(token)
	}
	return r
}

func checkResponse(resp *resty.Response, err error, what string) error {
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", what, err)
	}
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	case resp.StatusCode() == http.StatusUnauthorized:
		return fmt.Errorf("%s: %w", what, domain.ErrUnauthorized)
	case resp.StatusCode() == http.StatusForbidden:
		return fmt.Errorf("%s: %w", what, domain.ErrForbidden)
	case resp.IsError():
		return fmt.Errorf("%s: upstream returned status %d", what, resp.StatusCode())
	}
	return nil
}
