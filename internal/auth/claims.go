package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleSuperAdmin    = "super_admin"
	RolePlatformStaff = "platform_staff"
	RoleVendorAdmin   = "vendor_admin"
	RoleVendorStaff   = "vendor_staff"
	RoleCustomer      = "customer"
)

var ErrMalformedToken = errors.New("auth: malformed access token")

// Claims are the display fields read from an access token.
//
// They come from an UNVERIFIED decode of the token payload and only decide
// what the UI shows. The gateway verifies the token and enforces access on
// every call; nothing here is a security check.
type Claims struct {
	Subject     string    `json:"sub"`
	Email       string    `json:"email,omitempty"`
	Name        string    `json:"name,omitempty"`
	Roles       []string  `json:"roles,omitempty"`
	Permissions []string  `json:"permissions,omitempty"`
	ExpiresAt   time.Time `json:"exp,omitempty"`
}

// DecodeClaims base64url-decodes the JWT payload without checking the
// signature. Roles come from "roles" or any namespaced ".../roles" claim;
// permissions from "permissions" and the space separated "scope".
func DecodeClaims(accessToken string) (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, mc); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	c := Claims{}
	c.Subject, _ = mc["sub"].(string)
	c.Email = firstString(mc, "email")
	c.Name = firstString(mc, "name")
	if c.Name == "" {
		c.Name = firstString(mc, "nickname")
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}

	seen := map[string]bool{}
	for k, v := range mc {
		if k != "roles" && !strings.HasSuffix(k, "/roles") {
			continue
		}
		for _, r := range stringList(v) {
			if r = strings.ToLower(strings.TrimSpace(r)); r != "" && !seen[r] {
				seen[r] = true
				c.Roles = append(c.Roles, r)
			}
		}
	}

	seen = map[string]bool{}
	perms := stringList(mc["permissions"])
	if scope, ok := mc["scope"].(string); ok {
		perms = append(perms, strings.Fields(scope)...)
	}
	for _, p := range perms {
		if p = strings.TrimSpace(p); p != "" && !seen[p] {
			seen[p] = true
			c.Permissions = append(c.Permissions, p)
		}
	}
	return c, nil
}

func (c Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

func (c Claims) HasPermission(p string) bool {
	for _, x := range c.Permissions {
		if x == p {
			return true
		}
	}
	return false
}

// IsAdmin gates the admin screens.
func (c Claims) IsAdmin() bool {
	if c.HasRole(RoleSuperAdmin) || c.HasRole(RolePlatformStaff) {
		return true
	}
	for _, p := range c.Permissions {
		if strings.HasPrefix(p, "admin:") {
			return true
		}
	}
	return false
}

// IsVendor gates the vendor dashboard.
func (c Claims) IsVendor() bool {
	return c.HasRole(RoleVendorAdmin) || c.HasRole(RoleVendorStaff)
}

func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

func firstString(mc jwt.MapClaims, key string) string {
	if s, ok := mc[key].(string); ok {
		return s
	}
	for k, v := range mc {
		if strings.HasSuffix(k, "/"+key) {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}

func stringList(v any) []string {
	switch t := v.(type) {
	case string:
		return strings.Fields(strings.ReplaceAll(t, ",", " "))
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, x := range t {
			if s, ok := x.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
