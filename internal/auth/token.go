// Package auth issues and verifies the bearer tokens of the two trust domains
// (customers and administrators) and provides the gin middleware guarding them.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Domain string

const (
	DomainCustomer Domain = "customer"
	DomainAdmin    Domain = "admin"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrNoSecret     = errors.New("auth: signing secret is empty")
)

// Identity is what a verified token attaches to the request.
type Identity struct {
	Domain   Domain `json:"-"`
	UserID   string `json:"userId,omitempty"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	AdminID  string `json:"adminId,omitempty"`
	Username string `json:"username,omitempty"`
}

// SubjectID is the user id or admin id depending on the domain.
func (i Identity) SubjectID() string {
	if i.Domain == DomainAdmin {
		return i.AdminID
	}
	return i.UserID
}

type claims struct {
	Identity
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 tokens for one trust domain. The audience
// claim is bound to the domain so a token can only be verified by the issuer
// of its own domain, even if secrets were ever shared.
type Issuer struct {
	domain Domain
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(domain Domain, secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("auth: %s token ttl must be positive", domain)
	}
	return &Issuer{domain: domain, secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (is *Issuer) Domain() Domain { return is.domain }

func (is *Issuer) Issue(id Identity) (string, error) {
	id.Domain = is.domain
	now := is.now()
	c := claims{
		Identity: id,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.SubjectID(),
			Audience:  jwt.ClaimStrings{string(is.domain)},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(is.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(is.secret)
}

func (is *Issuer) Verify(token string) (Identity, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return is.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(string(is.domain)),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(is.now),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	id := c.Identity
	id.Domain = is.domain
	if id.SubjectID() == "" {
		return Identity{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return id, nil
}
