package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

var (
	ErrStateMismatch = errors.New("auth: login state mismatch")
	ErrSessionEnded  = errors.New("auth: session ended")
)

const (
	refreshSkew   = 60 * time.Second
	loginStateTTL = 10 * time.Minute
	touchEvery    = 5 * time.Minute
)

// Identity is the signed-in user for one request.
type Identity struct {
	SessionID   string
	AccessToken string
	Claims      Claims
}

func (i *Identity) Subject() string { return i.Claims.Subject }

type ManagerConfig struct {
	SessionTTL      time.Duration
	LogoutReturnURL string
}

// Manager runs the login, silent renewal and logout flows.
type Manager struct {
	provider     Provider
	store        *SessionStore
	signer       *Signer
	ttl          time.Duration
	logoutReturn string
	now          func() time.Time
	logger       *slog.Logger
	renewals     singleflight.Group
}

func NewManager(p Provider, store *SessionStore, signer *Signer, cfg ManagerConfig, logger *slog.Logger) *Manager {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Manager{
		provider:     p,
		store:        store,
		signer:       signer,
		ttl:          ttl,
		logoutReturn: cfg.LogoutReturnURL,
		now:          time.Now,
		logger:       logger,
	}
}

func (m *Manager) Signer() *Signer { return m.signer }

// BeginLogin returns the signed state cookie value and the provider URL to
// redirect to.
func (m *Manager) BeginLogin(returnTo string) (cookie, redirect string, err error) {
	ls := LoginState{
		State:    uuid.NewString(),
		Verifier: oauth2.GenerateVerifier(),
		ReturnTo: SafeReturnTo(returnTo),
		Expires:  m.now().Add(loginStateTTL),
	}
	cookie, err = m.signer.EncodeState(ls)
	if err != nil {
		return "", "", err
	}
	return cookie, m.provider.LoginURL(ls.State, ls.Verifier), nil
}

// CompleteLogin validates the callback, exchanges the code and persists a
// new session.
func (m *Manager) CompleteLogin(ctx context.Context, stateCookie, state, code string) (*Session, string, error) {
	ls, err := m.signer.DecodeState(stateCookie, m.now())
	if err != nil {
		return nil, "/", ErrStateMismatch
	}
	if subtle.ConstantTimeCompare([]byte(ls.State), []byte(state)) != 1 {
		return nil, ls.ReturnTo, ErrStateMismatch
	}

	tok, err := m.provider.Exchange(ctx, code, ls.Verifier)
	if err != nil {
		return nil, ls.ReturnTo, err
	}
	claims, err := DecodeClaims(tok.AccessToken)
	if err != nil {
		return nil, ls.ReturnTo, err
	}
	idToken := IDToken(tok)
	if idc, err := DecodeClaims(idToken); err == nil {
		if claims.Email == "" {
			claims.Email = idc.Email
		}
		if claims.Name == "" {
			claims.Name = idc.Name
		}
		if claims.Subject == "" {
			claims.Subject = idc.Subject
		}
	}
	if claims.Subject == "" {
		return nil, ls.ReturnTo, fmt.Errorf("%w: no subject", ErrMalformedToken)
	}

	sess := &Session{
		Subject:      claims.Subject,
		Email:        claims.Email,
		Name:         claims.Name,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		IDToken:      idToken,
		TokenExpiry:  tokenExpiry(tok, claims),
		ExpiresAt:    m.now().Add(m.ttl),
	}
	if err := m.store.Create(ctx, sess); err != nil {
		return nil, ls.ReturnTo, fmt.Errorf("create session: %w", err)
	}
	m.logger.Info("login", slog.String("session_id", sess.ID), slog.String("sub", sess.Subject))
	return sess, ls.ReturnTo, nil
}

// Resolve loads the session and silently renews the access token when it is
// within a minute of expiry. Concurrent requests for one session share a
// single renewal. A failed renewal ends the session.
func (m *Manager) Resolve(ctx context.Context, sessionID string) (*Identity, error) {
	sess, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if m.needsRenewal(sess) {
		sess, err = m.renewShared(ctx, sess.ID)
		if err != nil {
			return nil, err
		}
	} else if m.now().Sub(sess.LastSeenAt) > touchEvery {
		if err := m.store.Touch(ctx, sess.ID); err != nil {
			m.logger.Warn("session touch failed", slog.String("session_id", sess.ID), slog.Any("err", err))
		}
	}

	claims, err := DecodeClaims(sess.AccessToken)
	if err != nil {
		claims = Claims{Subject: sess.Subject}
	}
	if claims.Email == "" {
		claims.Email = sess.Email
	}
	if claims.Name == "" {
		claims.Name = sess.Name
	}
	return &Identity{SessionID: sess.ID, AccessToken: sess.AccessToken, Claims: claims}, nil
}

func (m *Manager) needsRenewal(sess *Session) bool {
	return !m.now().Add(refreshSkew).Before(sess.TokenExpiry)
}

// renewShared renews the session once per session id no matter how many
// requests ask at the same time. The session is re-read inside the flight so
// a renewal saved by an earlier flight or another instance is reused rather
// than replayed against the provider.
func (m *Manager) renewShared(ctx context.Context, id string) (*Session, error) {
	v, err, _ := m.renewals.Do(id, func() (any, error) {
		ctx := context.WithoutCancel(ctx)
		cur, err := m.store.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if !m.needsRenewal(cur) {
			return cur, nil
		}
		prevExpiry := cur.TokenExpiry
		rerr := m.renew(ctx, cur)
		if rerr == nil {
			return cur, nil
		}
		if latest, err := m.store.Get(ctx, id); err == nil && latest.TokenExpiry.After(prevExpiry) && !m.needsRenewal(latest) {
			m.logger.Info("silent_refresh_superseded", slog.String("session_id", id))
			return latest, nil
		}
		m.logger.Warn("silent_refresh_failed", slog.String("session_id", id), slog.Any("err", rerr))
		if derr := m.store.Delete(ctx, id); derr != nil {
			m.logger.Error("session delete failed", slog.String("session_id", id), slog.Any("err", derr))
		}
		return nil, ErrSessionEnded
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

func (m *Manager) renew(ctx context.Context, sess *Session) error {
	if sess.RefreshToken == "" {
		return errors.New("no refresh token")
	}
	tok, err := m.provider.Refresh(ctx, sess.RefreshToken)
	if err != nil {
		return err
	}
	sess.AccessToken = tok.AccessToken
	if tok.RefreshToken != "" {
		sess.RefreshToken = tok.RefreshToken
	}
	if id := IDToken(tok); id != "" {
		sess.IDToken = id
	}
	claims, _ := DecodeClaims(tok.AccessToken)
	sess.TokenExpiry = tokenExpiry(tok, claims)
	sess.LastSeenAt = m.now()
	return m.store.Save(ctx, sess)
}

// Logout deletes the session and returns the provider logout URL.
func (m *Manager) Logout(ctx context.Context, sessionID string) string {
	if sessionID != "" {
		if err := m.store.Delete(ctx, sessionID); err != nil {
			m.logger.Warn("logout session delete failed", slog.String("session_id", sessionID), slog.Any("err", err))
		}
	}
	return m.provider.LogoutURL(m.logoutReturn)
}

func tokenExpiry(tok *oauth2.Token, c Claims) time.Time {
	if !tok.Expiry.IsZero() {
		return tok.Expiry
	}
	if !c.ExpiresAt.IsZero() {
		return c.ExpiresAt
	}
	return time.Now().Add(time.Hour)
}
