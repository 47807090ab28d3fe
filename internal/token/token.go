package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"go-auth-service/internal/model"
)

// Service issues and verifies HS256 bearer tokens. The secret is fixed for
// the process lifetime and must be supplied by configuration, never compiled
// in. Tokens are stateless: there is no revocation, only the embedded expiry.
type Service struct {
	secret   []byte
	validity time.Duration
}

func NewService(secret string, validity time.Duration) (*Service, error) {
	if secret == "" {
		return nil, errors.New("token secret is required")
	}
	if validity <= 0 {
		return nil, errors.New("token validity must be positive")
	}

	return &Service{secret: []byte(secret), validity: validity}, nil
}

// Issue signs a token for subject with iat set to now and exp to now plus the
// configured validity window. Extra claims may not override the core claim
// set.
func (s *Service) Issue(subject string, extra map[string]any) (string, error) {
	now := time.Now().UTC()

	claims := jwt.MapClaims{}
	for key, value := range extra {
		claims[key] = value
	}
	claims["sub"] = subject
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(s.validity).Unix()

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// SubjectOf verifies the token signature and returns the sub claim. Expiry is
// deliberately not checked here; IsValid owns that comparison.
func (s *Service) SubjectOf(tokenString string) (string, error) {
	claims, err := s.verifiedClaims(tokenString)
	if err != nil {
		return "", err
	}

	subject, ok := claims["sub"].(string)
	if !ok || subject == "" {
		return "", model.ErrInvalidToken
	}
	return subject, nil
}

// IsValid reports whether the token belongs to expectedSubject and has not
// expired. Every decode or signature failure is treated as invalid rather
// than surfaced as an error.
func (s *Service) IsValid(tokenString string, expectedSubject string) bool {
	subject, err := s.SubjectOf(tokenString)
	if err != nil || subject != expectedSubject {
		return false
	}

	expiresAt, err := s.ExpiresAt(tokenString)
	if err != nil {
		return false
	}
	return time.Now().Before(expiresAt)
}

// ExpiresAt returns the token's exp claim.
func (s *Service) ExpiresAt(tokenString string) (time.Time, error) {
	return Claim(s, tokenString, func(claims jwt.MapClaims) (time.Time, error) {
		exp, ok := claims["exp"].(float64)
		if !ok {
			return time.Time{}, model.ErrInvalidToken
		}
		return time.Unix(int64(exp), 0), nil
	})
}

// Claim verifies tokenString against svc's secret and applies selector to the
// verified claim set. A method cannot be generic, hence the package-level
// function.
func Claim[T any](svc *Service, tokenString string, selector func(jwt.MapClaims) (T, error)) (T, error) {
	var zero T

	claims, err := svc.verifiedClaims(tokenString)
	if err != nil {
		return zero, err
	}
	return selector(claims)
}

func (s *Service) verifiedClaims(tokenString string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, model.ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil || !parsed.Valid {
		return nil, model.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, model.ErrInvalidToken
	}
	return claims, nil
}
