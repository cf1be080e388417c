package service

import (
	"context"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/infra/client/appapi"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/model"
)

// Enricher resolves display identities for call and notification payloads:
// the client renders "Jane Doe is calling", not a UUID.
type Enricher interface {
	// ResolveProfile resolves one identity, falling back to a bare profile
	// when the backend cannot answer; a payload with only an ID still moves.
	ResolveProfile(ctx context.Context, userID uuid.UUID) (model.Profile, error)
	// ResolveProfiles resolves two identities concurrently.
	ResolveProfiles(ctx context.Context, a, b uuid.UUID) (model.Profile, model.Profile, error)
}

type ProfileEnricher struct {
	api   *appapi.Client
	cache *lru.Cache[uuid.UUID, model.Profile]
}

// NewProfileEnricher provides a thread-safe enricher with an internal LRU
// cache holding hot identities.
func NewProfileEnricher(api *appapi.Client) *ProfileEnricher {
	cache, _ := lru.New[uuid.UUID, model.Profile](10000)

	return &ProfileEnricher{
		api:   api,
		cache: cache,
	}
}

func (e *ProfileEnricher) ResolveProfile(ctx context.Context, userID uuid.UUID) (model.Profile, error) {
	if userID == uuid.Nil {
		return model.NewProfile(userID), nil
	}

	if cached, ok := e.cache.Get(userID); ok {
		return cached, nil
	}

	profile, err := e.api.FetchProfile(ctx, userID)
	if err != nil {
		// Graceful fallback: the event keeps moving with a bare identity.
		return model.NewProfile(userID), err
	}

	e.cache.Add(userID, profile)
	return profile, nil
}

func (e *ProfileEnricher) ResolveProfiles(ctx context.Context, a, b uuid.UUID) (model.Profile, model.Profile, error) {
	g, gCtx := errgroup.WithContext(ctx)

	resA := model.NewProfile(a)
	resB := model.NewProfile(b)

	g.Go(func() error {
		var err error
		resA, err = e.ResolveProfile(gCtx, a)
		return err
	})

	g.Go(func() error {
		var err error
		resB, err = e.ResolveProfile(gCtx, b)
		return err
	})

	err := g.Wait()
	return resA, resB, err
}
