package echonest

import (
	"context"
	"errors"

	kerrors "github.com/tessro/kodictl/internal/errors"
	"github.com/tessro/kodictl/internal/logging"
)

// ProfileAPI is the subset of Client the resolver needs.
type ProfileAPI interface {
	ProfileByName(ctx context.Context, name string) (*Profile, error)
	CreateProfile(ctx context.Context, name string) (string, error)
}

// Resolver finds or creates the named profile once and remembers its id.
type Resolver struct {
	api  ProfileAPI
	name string
	id   string
}

// NewResolver creates a resolver for the profile called name.
func NewResolver(api ProfileAPI, name string) *Resolver {
	return &Resolver{api: api, name: name}
}

// ID returns the profile id, looking it up or creating the profile on first use.
func (r *Resolver) ID(ctx context.Context) (string, error) {
	if r.id != "" {
		return r.id, nil
	}

	log := logging.Ctx(ctx)
	p, err := r.api.ProfileByName(ctx, r.name)
	switch {
	case err == nil:
		log.Debug().Str("profile", p.ID).Msg("taste profile found")
		r.id = p.ID
	case errors.Is(err, kerrors.ErrProfileNotFound):
		log.Info().Str("name", r.name).Msg("no taste profile found, creating one")
		id, err := r.api.CreateProfile(ctx, r.name)
		if err != nil {
			return "", err
		}
		r.id = id
	default:
		return "", err
	}
	return r.id, nil
}

// Name returns the profile name.
func (r *Resolver) Name() string {
	return r.name
}

// Invalidate forgets the cached id, e.g. after the profile was deleted.
func (r *Resolver) Invalidate() {
	r.id = ""
}
