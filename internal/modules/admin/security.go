package admin

import (
	"context"
	"net/url"
	"strings"
	"time"

	"rumal.store/web/internal/auth"
	"rumal.store/web/internal/gateway"
	"rumal.store/web/internal/shared/apperr"
)

type Session struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	UserEmail    string     `json:"userEmail,omitempty"`
	IPAddress    string     `json:"ipAddress,omitempty"`
	UserAgent    string     `json:"userAgent,omitempty"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	LastActiveAt *time.Time `json:"lastActiveAt,omitempty"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	Revoked      bool       `json:"revoked"`
}

func (s *Service) ListSessions(ctx context.Context, id *auth.Identity, f Filter) (gateway.Page[Session], error) {
	return list[Session](ctx, s, id, KeySessions, "/admin/sessions", f)
}

func (s *Service) RevokeSession(ctx context.Context, id *auth.Identity, sessionID string) error {
	return s.mutate(ctx, id, func(ctx context.Context) error {
		return s.gw.Delete(ctx, "/admin/sessions/"+url.PathEscape(sessionID), id.AccessToken)
	}, KeySessions, KeyAudit)
}

type APIKey struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Prefix     string     `json:"prefix,omitempty"`
	Scopes     []string   `json:"scopes,omitempty"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	Revoked    bool       `json:"revoked"`
}

// CreatedAPIKey carries the secret, which the gateway returns only once.
type CreatedAPIKey struct {
	APIKey
	Secret string `json:"key"`
}

func (s *Service) ListAPIKeys(ctx context.Context, id *auth.Identity, f Filter) (gateway.Page[APIKey], error) {
	return list[APIKey](ctx, s, id, KeyAPIKeys, "/admin/api-keys", f)
}

func (s *Service) CreateAPIKey(ctx context.Context, id *auth.Identity, name string, scopes []string) (CreatedAPIKey, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return CreatedAPIKey{}, apperr.InvalidErr("Give the key a name.", map[string]string{"name": "Required."})
	}
	clean := make([]string, 0, len(scopes))
	for _, sc := range scopes {
		if sc = strings.TrimSpace(sc); sc != "" {
			clean = append(clean, sc)
		}
	}
	var out CreatedAPIKey
	err := s.mutate(ctx, id, func(ctx context.Context) error {
		return s.gw.Post(ctx, "/admin/api-keys", map[string]any{"name": name, "scopes": clean}, id.AccessToken, &out)
	}, KeyAPIKeys, KeyAudit)
	return out, err
}

func (s *Service) RevokeAPIKey(ctx context.Context, id *auth.Identity, keyID string) error {
	return s.mutate(ctx, id, func(ctx context.Context) error {
		return s.gw.Delete(ctx, "/admin/api-keys/"+url.PathEscape(keyID), id.AccessToken)
	}, KeyAPIKeys, KeyAudit)
}

type AuditEntry struct {
	ID         string            `json:"id"`
	ActorID    string            `json:"actorId,omitempty"`
	ActorEmail string            `json:"actorEmail,omitempty"`
	Action     string            `json:"action"`
	Resource   string            `json:"resource,omitempty"`
	ResourceID string            `json:"resourceId,omitempty"`
	IPAddress  string            `json:"ipAddress,omitempty"`
	Outcome    string            `json:"outcome,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
	CreatedAt  *time.Time        `json:"createdAt,omitempty"`
}

func (s *Service) ListAccessAudit(ctx context.Context, id *auth.Identity, f Filter) (gateway.Page[AuditEntry], error) {
	return list[AuditEntry](ctx, s, id, KeyAudit, "/admin/access-audit", f)
}
