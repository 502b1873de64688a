package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"namecard/internal/domain"
	"namecard/internal/logging"
	"namecard/internal/metrics"
	"namecard/internal/vcard"
)

const cacheTimeout = 50 * time.Millisecond

type CardExporter interface {
	// ExportCard renders an already loaded profile and card.
	ExportCard(ctx context.Context, profile domain.Profile, card domain.Card, index int) (*domain.ExportArtifact, error)
	// ExportByID loads the caller's profile and the card upstream, then renders them.
	ExportByID(ctx context.Context, token string, cardID uuid.UUID, index int) (*domain.ExportArtifact, error)
}

type Options struct {
	Cards    domain.CardSource
	Profiles domain.ProfileSource
	Avatars  domain.AvatarFetcher
	Cache    domain.CardCache
	CacheTTL time.Duration
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
}

type cardExporter struct {
	cards    domain.CardSource
	profiles domain.ProfileSource
	avatars  domain.AvatarFetcher
	cache    domain.CardCache
	cacheTTL time.Duration
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

func NewCardExporter(opts Options) CardExporter {
	return &cardExporter{
		cards:    opts.Cards,
		profiles: opts.Profiles,
		avatars:  opts.Avatars,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		logger:   logging.OrNop(opts.Logger),
		metrics:  opts.Metrics,
	}
}

func (uc *cardExporter) ExportCard(ctx context.Context, profile domain.Profile, card domain.Card, index int) (*domain.ExportArtifact, error) {
	return uc.export(ctx, profile, card, index, metrics.SourceInline)
}

// ExportByID resolves the caller through the profile endpoint on every call.
// A cached card is only served when its owner matches that profile.
func (uc *cardExporter) ExportByID(ctx context.Context, token string, cardID uuid.UUID, index int) (*domain.ExportArtifact, error) {
	if index < 0 || index > domain.MaxCardIndex {
		return nil, domain.ErrInvalidIndex
	}
	if token == "" {
		return nil, domain.ErrUnauthorized
	}

	profile, err := uc.loadProfile(ctx, token)
	if err != nil {
		return nil, err
	}

	card, err := uc.loadCard(ctx, token, cardID, profile.ID)
	if err != nil {
		return nil, err
	}

	return uc.export(ctx, *profile, *card, index, metrics.SourceAPI)
}

func (uc *cardExporter) export(ctx context.Context, profile domain.Profile, card domain.Card, index int, source string) (*domain.ExportArtifact, error) {
	if index < 0 || index > domain.MaxCardIndex {
		return nil, domain.ErrInvalidIndex
	}

	photo := ""
	if profile.Avatar != "" && uc.avatars != nil {
		photo, _ = uc.avatars.Fetch(ctx, profile.Avatar)
	}

	artifact := vcard.Build(profile, card, index, photo)
	uc.metrics.ExportDone(source)
	uc.logger.Debug("card exported",
		zap.String("filename", artifact.Filename),
		zap.Bool("photo", photo != ""),
		zap.String("source", source))
	return &artifact, nil
}

func (uc *cardExporter) loadProfile(ctx context.Context, token string) (*domain.Profile, error) {
	if uc.profiles == nil {
		return nil, errors.New("no profile source configured")
	}
	profile, err := uc.profiles.Profile(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}

// loadCard reads through the cache only when the caller's id is known.
// Without one there is nothing to check a cached owner against.
func (uc *cardExporter) loadCard(ctx context.Context, token string, id, ownerID uuid.UUID) (*domain.Card, error) {
	useCache := uc.cache != nil && ownerID != uuid.Nil

	if useCache {
		cacheCtx, cancelCache := context.WithTimeout(ctx, cacheTimeout)
		cached, err := uc.cache.GetCard(cacheCtx, id)
		cancelCache()
		if err == nil && cached != nil && cached.UserID == ownerID {
			return cached, nil
		}
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			uc.logger.Warn("cache get error", zap.Stringer("card_id", id), zap.Error(err))
		}
	}

	if uc.cards == nil {
		return nil, fmt.Errorf("card %s: no card source configured", id)
	}
	card, err := uc.cards.Card(ctx, token, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load card: %w", err)
	}

	if ownerID != uuid.Nil {
		switch card.UserID {
		case ownerID:
		case uuid.Nil:
			card.UserID = ownerID
		default:
			uc.logger.Warn("card owner mismatch",
				zap.Stringer("card_id", id),
				zap.Stringer("owner_id", card.UserID),
				zap.Stringer("caller_id", ownerID))
			return nil, fmt.Errorf("card %s: %w", id, domain.ErrForbidden)
		}
	}

	if useCache {
		if err := uc.cache.SetCard(ctx, card, uc.cacheTTL); err != nil {
			uc.logger.Warn("cache set error", zap.Stringer("card_id", id), zap.Error(err))
		}
	}
	return card, nil
}
