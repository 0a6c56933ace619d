// Package session holds everything one kodictl run shares between commands:
// configuration, server clients, the library manager and the cached library.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/tessro/kodictl/internal/config"
	"github.com/tessro/kodictl/internal/core"
	"github.com/tessro/kodictl/internal/delta"
	"github.com/tessro/kodictl/internal/echonest"
	kerrors "github.com/tessro/kodictl/internal/errors"
	"github.com/tessro/kodictl/internal/kodi"
	"github.com/tessro/kodictl/internal/kodi/rpc"
	"github.com/tessro/kodictl/internal/library"
	"github.com/tessro/kodictl/internal/logging"
)

// Session is the state of one interactive or one-shot run.
type Session struct {
	Config   *config.Config
	Kodi     *kodi.Client
	Player   *kodi.Player
	Manager  *library.Manager
	Engine   *delta.Engine
	Echonest *echonest.Client
	Profile  *echonest.Resolver

	lib          *core.Library
	friendlyName string
}

// Deps lets callers supply the transport and store instead of building them
// from the configuration.
type Deps struct {
	Transport rpc.Transport
	Store     library.Store
}

// New builds a session from cfg. No network traffic happens here.
func New(cfg *config.Config) (*Session, error) {
	return NewWithDeps(cfg, Deps{})
}

// NewWithDeps builds a session, creating whatever deps leaves nil.
func NewWithDeps(cfg *config.Config, deps Deps) (*Session, error) {
	if deps.Transport == nil {
		t, err := rpc.New(cfg.Kodi)
		if err != nil {
			return nil, err
		}
		deps.Transport = t
	}
	if deps.Store == nil {
		st, err := library.NewStore(cfg.Library)
		if err != nil {
			_ = deps.Transport.Close()
			return nil, err
		}
		deps.Store = st
	}

	client := kodi.New(deps.Transport)
	reader := kodi.NewLibraryReader(client)
	retry := library.RetryPolicyFromConfig(cfg.Library)
	manager := library.NewManager(reader, deps.Store, library.Options{
		SongsPageSize:  cfg.Library.SongsPageSize,
		AlbumsPageSize: cfg.Library.AlbumsPageSize,
		Retry:          retry,
	})

	s := &Session{
		Config:  cfg,
		Kodi:    client,
		Player:  kodi.NewPlayer(client),
		Manager: manager,
	}

	var profile delta.Profile
	var resolver delta.Resolver
	if cfg.Echonest.APIKey != "" {
		s.Echonest = echonest.New(cfg.Echonest.BaseURL, cfg.Echonest.APIKey)
		s.Profile = echonest.NewResolver(s.Echonest, cfg.Echonest.ProfileName)
		profile, resolver = s.Echonest, s.Profile
	}
	s.Engine = delta.NewEngine(reader, manager, profile, resolver, delta.OptionsFromConfig(cfg))
	return s, nil
}

// Library returns the cached library, or nil before LoadLibrary.
func (s *Session) Library() *core.Library {
	return s.lib
}

// SetLibrary replaces the cached library.
func (s *Session) SetLibrary(lib *core.Library) {
	s.lib = lib
}

// RequireLibrary returns the cached library or kerrors.ErrLibraryNotLoaded.
func (s *Session) RequireLibrary() (*core.Library, error) {
	if s.lib == nil {
		return nil, kerrors.ErrLibraryNotLoaded
	}
	return s.lib, nil
}

// LoadLibrary loads the library from the snapshot or the server.
func (s *Session) LoadLibrary(ctx context.Context) error {
	lib, err := s.Manager.Load(ctx)
	if err != nil {
		return err
	}
	s.lib = lib
	return nil
}

// RefreshLibrary discards the snapshot and ingests the library again.
func (s *Session) RefreshLibrary(ctx context.Context) error {
	lib, err := s.Manager.Refresh(ctx)
	if err != nil {
		return err
	}
	s.lib = lib
	return nil
}

// RequireProfile returns the Echonest client and the profile id.
func (s *Session) RequireProfile(ctx context.Context) (*echonest.Client, string, error) {
	if s.Echonest == nil {
		return nil, "", kerrors.WithSuggestion(
			fmt.Errorf("echonest: %w", kerrors.ErrNotConfigured),
			"Set echonest.api_key with 'kodictl params' or KODICTL_ECHONEST_API_KEY",
		)
	}
	id, err := s.Profile.ID(ctx)
	if err != nil {
		return nil, "", err
	}
	return s.Echonest, id, nil
}

// DeleteProfile removes the taste profile and forgets its id.
func (s *Session) DeleteProfile(ctx context.Context) (string, error) {
	client, id, err := s.RequireProfile(ctx)
	if err != nil {
		return "", err
	}
	if err := client.Delete(ctx, id); err != nil {
		return "", err
	}
	s.Profile.Invalidate()
	return id, nil
}

// FriendlyName returns the server's name, falling back to the host. The
// name is fetched once.
func (s *Session) FriendlyName(ctx context.Context) string {
	if s.friendlyName != "" {
		return s.friendlyName
	}
	name, err := s.Kodi.FriendlyName(ctx)
	if err != nil || name == "" {
		logging.Ctx(ctx).Debug().Err(err).Msg("friendly name unavailable")
		return s.Config.Kodi.Host
	}
	s.friendlyName = name
	return name
}

// Close releases the transport and the store.
func (s *Session) Close() error {
	return errors.Join(s.Kodi.Close(), s.Manager.Store().Close())
}
