// Package jwt issues and verifies the HS256 bearer tokens of the API.
// Access and refresh tokens use separate secrets and audiences, so one can
// never be accepted in place of the other.
package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	Issuer = "petromatch"

	audienceAccess  = "access"
	audienceRefresh = "refresh"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type claims struct {
	Email string `json:"email,omitempty"`
	jwtlib.RegisteredClaims
}

// Pair is what a successful login or refresh hands back to the client.
type Pair struct {
	AccessToken     string
	RefreshToken    string
	AccessExpiresAt time.Time
}

type Service interface {
	IssuePair(userID uuid.UUID, email string) (Pair, error)
	VerifyAccessToken(token string) (uuid.UUID, error)
	VerifyRefreshToken(token string) (uuid.UUID, error)
}

type HMACService struct {
	access  key
	refresh key
	now     func() time.Time
}

type key struct {
	audience string
	secret   []byte
	ttl      time.Duration
}

func NewHMACService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *HMACService {
	return &HMACService{
		access:  key{audience: audienceAccess, secret: []byte(accessSecret), ttl: accessTTL},
		refresh: key{audience: audienceRefresh, secret: []byte(refreshSecret), ttl: refreshTTL},
		now:     time.Now,
	}
}

func (s *HMACService) IssuePair(userID uuid.UUID, email string) (Pair, error) {
	if userID == uuid.Nil {
		return Pair{}, ErrTokenInvalid
	}
	access, exp, err := s.sign(s.access, userID, email)
	if err != nil {
		return Pair{}, err
	}
	refresh, _, err := s.sign(s.refresh, userID, "")
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: access, RefreshToken: refresh, AccessExpiresAt: exp}, nil
}

func (s *HMACService) VerifyAccessToken(token string) (uuid.UUID, error) {
	return s.verify(s.access, token)
}

func (s *HMACService) VerifyRefreshToken(token string) (uuid.UUID, error) {
	return s.verify(s.refresh, token)
}

func (s *HMACService) sign(k key, userID uuid.UUID, email string) (string, time.Time, error) {
	if len(k.secret) == 0 || k.ttl <= 0 {
		return "", time.Time{}, ErrTokenInvalid
	}
	now := s.now().UTC()
	exp := now.Add(k.ttl)

	c := claims{
		Email: email,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   userID.String(),
			Audience:  jwtlib.ClaimStrings{k.audience},
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c).SignedString(k.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (s *HMACService) verify(k key, token string) (uuid.UUID, error) {
	if token == "" || len(k.secret) == 0 {
		return uuid.Nil, ErrTokenInvalid
	}

	parser := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithIssuer(Issuer),
		jwtlib.WithAudience(k.audience),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(s.now),
	)

	var c claims
	_, err := parser.ParseWithClaims(token, &c, func(*jwtlib.Token) (any, error) {
		return k.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return uuid.Nil, ErrTokenExpired
		}
		return uuid.Nil, ErrTokenInvalid
	}

	id, err := uuid.Parse(c.Subject)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, ErrTokenInvalid
	}
	return id, nil
}
