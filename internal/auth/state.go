package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var ErrInvalidCookie = errors.New("auth: invalid signed cookie")

// LoginState survives the round trip to the identity provider.
type LoginState struct {
	State    string    `json:"s"`
	Verifier string    `json:"v"`
	ReturnTo string    `json:"r"`
	Expires  time.Time `json:"e"`
}

// Signer produces values of the form base64(payload).base64(hmac).
type Signer struct {
	secret []byte
}

func NewSigner(secret []byte) *Signer { return &Signer{secret: secret} }

func (s *Signer) Sign(payload []byte) string {
	p := base64.RawURLEncoding.EncodeToString(payload)
	return p + "." + s.mac(p)
}

func (s *Signer) Open(v string) ([]byte, error) {
	p, sig, ok := strings.Cut(v, ".")
	if !ok || p == "" {
		return nil, ErrInvalidCookie
	}
	if !hmac.Equal([]byte(s.mac(p)), []byte(sig)) {
		return nil, ErrInvalidCookie
	}
	raw, err := base64.RawURLEncoding.DecodeString(p)
	if err != nil {
		return nil, ErrInvalidCookie
	}
	return raw, nil
}

func (s *Signer) mac(payload string) string {
	m := hmac.New(sha256.New, s.secret)
	m.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(m.Sum(nil))
}

func (s *Signer) EncodeState(ls LoginState) (string, error) {
	b, err := json.Marshal(ls)
	if err != nil {
		return "", err
	}
	return s.Sign(b), nil
}

func (s *Signer) DecodeState(v string, now time.Time) (LoginState, error) {
	raw, err := s.Open(v)
	if err != nil {
		return LoginState{}, err
	}
	var ls LoginState
	if err := json.Unmarshal(raw, &ls); err != nil || ls.State == "" {
		return LoginState{}, ErrInvalidCookie
	}
	if now.After(ls.Expires) {
		return LoginState{}, ErrInvalidCookie
	}
	return ls, nil
}

func (s *Signer) EncodeSessionID(id string) string { return s.Sign([]byte(id)) }

func (s *Signer) DecodeSessionID(v string) (string, error) {
	raw, err := s.Open(v)
	if err != nil {
		return "", err
	}
	if len(raw) == 0 {
		return "", ErrInvalidCookie
	}
	return string(raw), nil
}

// SafeReturnTo keeps post-login redirects on this site.
func SafeReturnTo(s string) string {
	if s == "" || !strings.HasPrefix(s, "/") || strings.HasPrefix(s, "//") || strings.HasPrefix(s, "/\\") {
		return "/"
	}
	return s
}
