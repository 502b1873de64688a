package sources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namecard/internal/domain"
)

func newTestAPI(t *testing.T, h http.HandlerFunc) *APIClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewAPIClient(APIConfig{
		BaseURL:     srv.URL,
		ProfilePath: "/user/me",
		CardPath:    "/card/{id}",
		Timeout:     time.Second,
	})
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestProfile(t *testing.T) {
	var gotAuth string
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/user/me" {
			writeJSON(w, http.StatusNotFound, `{}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"data":{"full_name":"Jane Doe","email":"jane@example.com","avatar":"https://cdn/a.jpg"}}`)
	})

	p, err := api.Profile(context.Background(), "tok123")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok123", gotAuth)
	assert.Equal(t, "Jane Doe", p.FullName)
	assert.Equal(t, "jane@example.com", p.Email)
	assert.Equal(t, "https://cdn/a.jpg", p.Avatar)
}

func TestCard(t *testing.T) {
	id := uuid.New()
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/card/"+id.String() {
			writeJSON(w, http.StatusNotFound, `{}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"card":{"job":"Engineer","company":"Acme","web_site":"https://acme.io","card_type":"Modern"}}`)
	})

	c, err := api.Card(context.Background(), "", id)
	require.NoError(t, err)

	assert.Equal(t, id, c.ID)
	assert.Equal(t, "Engineer", c.Job)
	assert.Equal(t, "Acme", c.Company)
	assert.Equal(t, "https://acme.io", c.WebSite)
	assert.Equal(t, domain.CardTypeModern, c.CardType)
}

func TestUpstreamErrors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, `{"message":"no such card"}`)
		})
		_, err := api.Card(context.Background(), "tok", uuid.New())
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("unauthorized", func(t *testing.T) {
		api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, `{"message":"token expired"}`)
		})
		_, err := api.Profile(context.Background(), "tok")
		assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	})

	t.Run("forbidden", func(t *testing.T) {
		api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusForbidden, `{}`)
		})
		_, err := api.Card(context.Background(), "tok", uuid.New())
		assert.True(t, errors.Is(err, domain.ErrForbidden))
	})

	t.Run("server error", func(t *testing.T) {
		api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, `{}`)
		})
		_, err := api.Profile(context.Background(), "tok")
		require.Error(t, err)
		assert.False(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("empty envelope", func(t *testing.T) {
		api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{}`)
		})
		_, err := api.Profile(context.Background(), "tok")
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}
