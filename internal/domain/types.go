package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// MaxCardIndex bounds the ordinal a caller may ask for; filenames carry index+1.
const MaxCardIndex = 9999

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidIndex = errors.New("card index out of range")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("card does not belong to caller")
)

type CardSource interface {
	Card(ctx context.Context, token string, id uuid.UUID) (*Card, error)
}

type ProfileSource interface {
	Profile(ctx context.Context, token string) (*Profile, error)
}

// AvatarFetcher downloads an avatar and returns it Base64 encoded. Failures
// are reported as ok == false, never as an error.
type AvatarFetcher interface {
	Fetch(ctx context.Context, url string) (photo string, ok bool)
}

// CardCache holds card bodies only. Callers must check ownership against an
// upstream-authenticated profile before serving a cached card.
type CardCache interface {
	GetCard(ctx context.Context, id uuid.UUID) (*Card, error)
	SetCard(ctx context.Context, card *Card, ttl time.Duration) error
	InvalidateCard(ctx context.Context, id uuid.UUID) error
	DeleteOlderThan(ctx context.Context, olderThan time.Duration) error
}
