// Package flash carries one-shot toasts across redirects in a signed cookie.
package flash

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"rumal.store/web/internal/auth"
	"rumal.store/web/pkg/view"
)

var ErrInvalid = errors.New("invalid flash cookie")

const maxAge = 2 * time.Minute

type Codec struct {
	signer     *auth.Signer
	CookieName string
	Secure     bool
}

func NewCodec(signer *auth.Signer, cookieName string, secure bool) *Codec {
	if cookieName == "" {
		cookieName = "rumal_flash"
	}
	return &Codec{signer: signer, CookieName: cookieName, Secure: secure}
}

func (c *Codec) Encode(f view.Flash) (string, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	return c.signer.Sign(b), nil
}

func (c *Codec) Decode(v string) (*view.Flash, error) {
	raw, err := c.signer.Open(v)
	if err != nil {
		return nil, ErrInvalid
	}
	var f view.Flash
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, ErrInvalid
	}
	if strings.TrimSpace(f.Message) == "" {
		return nil, ErrInvalid
	}
	return &f, nil
}

func (c *Codec) CookieMaxAge() int { return int(maxAge.Seconds()) }
