package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// DefaultTokenTTL is how long access tokens are valid when no TTL is
// configured. There is no refresh: an expired token means logging in again.
const DefaultTokenTTL = 30 * time.Minute

var (
	// ErrInvalidToken is returned for every token that fails verification.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned alongside ErrInvalidToken for expired tokens.
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the access token payload: the user id as a string in "sub" plus
// the expiry in "exp".
type Claims struct {
	jwt.RegisteredClaims
}

// SubjectID parses the numeric user id out of the subject claim.
func (c *Claims) SubjectID() (int, error) {
	if c.Subject == "" {
		return 0, errors.Wrap(ErrInvalidToken, "missing subject")
	}
	id, err := strconv.Atoi(c.Subject)
	if err != nil {
		return 0, errors.Wrap(ErrInvalidToken, "malformed subject")
	}
	return id, nil
}

// TokenService issues and verifies HS256 signed access tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type TokenOption func(*TokenService)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

// NewTokenService creates a token service signing with secret. A zero ttl
// means DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration, opts ...TokenOption) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	s := &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue creates a token for the given user id with the configured TTL.
func (s *TokenService) Issue(subjectID int) (string, error) {
	return s.IssueWithTTL(subjectID, s.ttl)
}

// IssueWithTTL creates a token for the given user id that expires after ttl.
func (s *TokenService) IssueWithTTL(subjectID int, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(subjectID),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of a token and returns its claims.
// Every failure wraps ErrInvalidToken; expired tokens also wrap
// ErrTokenExpired.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, &tokenError{reason: ErrTokenExpired, cause: err}
		}
		return nil, &tokenError{cause: err}
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// tokenError keeps the jwt error for logging while matching ErrInvalidToken
// (and ErrTokenExpired when that's the reason).
type tokenError struct {
	reason error
	cause  error
}

func (e *tokenError) Error() string {
	return ErrInvalidToken.Error() + ": " + e.cause.Error()
}

func (e *tokenError) Is(target error) bool {
	return target == ErrInvalidToken || (e.reason != nil && target == e.reason)
}

func (e *tokenError) Unwrap() error {
	return e.cause
}
