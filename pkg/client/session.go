package client

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"vantahire/pkg/access"
)

// Session is the client's identity provider. It starts Loading and resolves
// once Init has asked the server who is signed in.
type Session struct {
	api    *API
	cache  Cache
	routes *access.RouteTable

	mu        sync.RWMutex
	resolved  bool
	principal *access.Principal
}

func NewSession(api *API, cache Cache) *Session {
	return &Session{api: api, cache: cache, routes: access.NewRouteTable(access.DefaultRoutes)}
}

// Init fetches the current principal once. A 401 resolves to signed out;
// other failures also resolve to signed out and are returned.
func (s *Session) Init(ctx context.Context) error {
	s.mu.RLock()
	done := s.resolved
	s.mu.RUnlock()
	if done {
		return nil
	}

	var p access.Principal
	err := s.api.Do(ctx, http.MethodGet, "/api/user", nil, nil, &p)
	if errors.Is(err, context.Canceled) {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolved = true
	if err != nil {
		s.principal = nil
		if errors.Is(err, ErrUnauthorized) {
			return nil
		}
		return err
	}
	s.principal = &p
	return nil
}

func (s *Session) State() access.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.resolved {
		return access.SessionState{Loading: true}
	}
	if s.principal == nil {
		return access.SessionState{}
	}
	p := *s.principal
	return access.SessionState{Principal: &p}
}

// Check runs the page guard for path against the current state.
func (s *Session) Check(path string) access.Decision {
	return s.routes.Check(s.State(), path)
}

func (s *Session) Login(ctx context.Context, username, password string) (*access.Principal, error) {
	return s.authenticate(ctx, "/api/login", map[string]string{"username": username, "password": password})
}

type Registration struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Role      string `json:"role,omitempty"`
}

func (s *Session) Register(ctx context.Context, r Registration) (*access.Principal, error) {
	return s.authenticate(ctx, "/api/register", r)
}

func (s *Session) authenticate(ctx context.Context, path string, body any) (*access.Principal, error) {
	var p access.Principal
	if err := s.api.Do(ctx, http.MethodPost, path, nil, body, &p); err != nil {
		return nil, err
	}
	s.set(&p)
	out := p
	return &out, nil
}

// Logout clears the principal and cached queries even when the server call fails.
func (s *Session) Logout(ctx context.Context) error {
	err := s.api.Do(ctx, http.MethodPost, "/api/logout", nil, nil, nil)
	s.set(nil)
	if s.cache != nil {
		s.cache.InvalidatePrefix("")
	}
	return err
}

func (s *Session) set(p *access.Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolved = true
	s.principal = p
}
