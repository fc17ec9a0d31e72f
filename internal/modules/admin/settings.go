package admin

import (
	"context"
	"net/url"
	"time"

	"rumal.store/web/internal/auth"
	"rumal.store/web/internal/gateway"
	"rumal.store/web/internal/query"
)

// Setting is one SystemConfig entry.
type Setting struct {
	Key         string     `json:"key"`
	Value       string     `json:"value"`
	Description string     `json:"description,omitempty"`
	Type        string     `json:"type,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

type FeatureFlag struct {
	Key         string     `json:"key"`
	Name        string     `json:"name,omitempty"`
	Description string     `json:"description,omitempty"`
	Enabled     bool       `json:"enabled"`
	Rollout     int        `json:"rolloutPercentage"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

func (s *Service) ListSettings(ctx context.Context, id *auth.Identity) ([]Setting, error) {
	return query.Get(ctx, s.cache, KeySettings.With(id.Subject()), func(ctx context.Context) ([]Setting, error) {
		var p gateway.Page[Setting]
		err := s.gw.Get(ctx, "/admin/settings", nil, id.AccessToken, &p)
		return p.Content, err
	})
}

func (s *Service) UpdateSetting(ctx context.Context, id *auth.Identity, key, value string) error {
	return s.mutate(ctx, id, func(ctx context.Context) error {
		return s.gw.Put(ctx, "/admin/settings/"+url.PathEscape(key), map[string]string{"value": value}, id.AccessToken, nil)
	}, KeySettings, KeyAudit)
}

func (s *Service) ListFlags(ctx context.Context, id *auth.Identity) ([]FeatureFlag, error) {
	return query.Get(ctx, s.cache, KeyFlags.With(id.Subject()), func(ctx context.Context) ([]FeatureFlag, error) {
		var p gateway.Page[FeatureFlag]
		err := s.gw.Get(ctx, "/admin/settings/feature-flags", nil, id.AccessToken, &p)
		return p.Content, err
	})
}

// ToggleFlag sets a flag. When the gateway refuses, the cached flag list is
// left as it was, so the screen keeps showing the previous state.
func (s *Service) ToggleFlag(ctx context.Context, id *auth.Identity, key string, enabled bool) error {
	return s.mutate(ctx, id, func(ctx context.Context) error {
		return s.gw.Patch(ctx, "/admin/settings/feature-flags/"+url.PathEscape(key), map[string]bool{"enabled": enabled}, id.AccessToken, nil)
	}, KeyFlags, KeyAudit)
}
