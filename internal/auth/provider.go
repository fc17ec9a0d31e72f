package auth

import (
	"context"
	"fmt"
	"net/url"

	"golang.org/x/oauth2"

	"rumal.store/web/internal/config"
)

// Provider is the identity provider side of the login flow.
type Provider interface {
	LoginURL(state, verifier string) string
	Exchange(ctx context.Context, code, verifier string) (*oauth2.Token, error)
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
	LogoutURL(returnTo string) string
}

// OAuthProvider talks to an Auth0-style tenant: /authorize, /oauth/token
// and /v2/logout under https://{domain}.
type OAuthProvider struct {
	cfg      *oauth2.Config
	domain   string
	audience string
}

func NewOAuthProvider(c config.OAuthConfig) *OAuthProvider {
	base := "https://" + c.Domain
	scopes := c.Scopes
	if len(scopes) == 0 {
		scopes = []string{"openid", "profile", "email", "offline_access"}
	}
	return &OAuthProvider{
		cfg: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURL:  c.RedirectURL,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   base + "/authorize",
				TokenURL:  base + "/oauth/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		domain:   c.Domain,
		audience: c.Audience,
	}
}

func (p *OAuthProvider) LoginURL(state, verifier string) string {
	opts := []oauth2.AuthCodeOption{oauth2.S256ChallengeOption(verifier)}
	if p.audience != "" {
		opts = append(opts, oauth2.SetAuthURLParam("audience", p.audience))
	}
	return p.cfg.AuthCodeURL(state, opts...)
}

func (p *OAuthProvider) Exchange(ctx context.Context, code, verifier string) (*oauth2.Token, error) {
	tok, err := p.cfg.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("oauth exchange: %w", err)
	}
	return tok, nil
}

// Refresh trades a refresh token for a new access token.
func (p *OAuthProvider) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	tok, err := p.cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, fmt.Errorf("oauth refresh: %w", err)
	}
	return tok, nil
}

func (p *OAuthProvider) LogoutURL(returnTo string) string {
	q := url.Values{}
	q.Set("client_id", p.cfg.ClientID)
	if returnTo != "" {
		q.Set("returnTo", returnTo)
	}
	return "https://" + p.domain + "/v2/logout?" + q.Encode()
}

// IDToken returns the id_token extra of a token response, if any.
func IDToken(tok *oauth2.Token) string {
	if tok == nil {
		return ""
	}
	s, _ := tok.Extra("id_token").(string)
	return s
}
