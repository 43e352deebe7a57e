package token

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"

	"github.com/doodlesbykumbi/voterlist/pkg/accesscontrol"
	"github.com/doodlesbykumbi/voterlist/pkg/event"
	"github.com/doodlesbykumbi/voterlist/pkg/identity"
)

// KeySize is the length of keys produced by GenerateKey.
const KeySize = 32

var (
	ErrMalformed = errors.New("token: malformed token")
	ErrExpired   = errors.New("token: token expired")
	ErrIssuer    = errors.New("token: issuer mismatch")
	ErrSubject   = errors.New("token: subject is not an account")
	ErrKeyLength = fmt.Errorf("token: key must be at least %d bytes", KeySize)
)

// Claims are the claims of a caller token. The subject is the lowercase
// hex address of the caller.
type Claims struct {
	jwt.RegisteredClaims
}

// Issuer signs caller tokens with HS256.
type Issuer struct {
	key    []byte
	issuer string
	ttl    time.Duration
	clock  clockwork.Clock
}

// NewIssuer creates an Issuer. A nil clock means the real clock.
func NewIssuer(key []byte, issuer string, ttl time.Duration, clock clockwork.Clock) (*Issuer, error) {
	if len(key) < KeySize {
		return nil, ErrKeyLength
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Issuer{key: key, issuer: issuer, ttl: ttl, clock: clock}, nil
}

// Issue returns a signed token naming account as the caller.
func (i *Issuer) Issue(account common.Address) (string, *Claims, error) {
	now := i.clock.Now().UTC()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   accesscontrol.FormatAccount(account),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			ID:        event.NewID(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return "", nil, fmt.Errorf("token: sign: %w", err)
	}
	return signed, claims, nil
}

// Verifier validates caller tokens signed by an Issuer sharing its key.
type Verifier struct {
	key    []byte
	issuer string
	clock  clockwork.Clock
}

// NewVerifier creates a Verifier. An empty issuer is not enforced.
func NewVerifier(key []byte, issuer string, clock clockwork.Clock) (*Verifier, error) {
	if len(key) < KeySize {
		return nil, ErrKeyLength
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Verifier{key: key, issuer: issuer, clock: clock}, nil
}

// Verify checks the signature and claims of tokenStr and returns the
// identity it names.
func (v *Verifier) Verify(tokenStr string) (*identity.Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.clock.Now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.NewParser(opts...).ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return v.key, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpired
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return nil, ErrIssuer
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrMalformed
	}

	caller, err := accesscontrol.ParseAccount(claims.Subject)
	if err != nil {
		return nil, ErrSubject
	}

	var issuedAt, expiresAt time.Time
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return identity.FromClaims(caller, claims.ID, issuedAt, expiresAt), nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(header[len(prefix):])
	return tok, tok != ""
}

// GenerateKey returns a new random key, base64 encoded for
// VOTERLIST_TOKEN_KEY.
func GenerateKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(key), nil
}
