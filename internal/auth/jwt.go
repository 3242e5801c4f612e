package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

type CustomClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTManager signs and verifies HS256 access/refresh tokens.
type JWTManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewJWTManager(secret string, accessMinutes, refreshDays int) *JWTManager {
	return &JWTManager{
		secret:     []byte(secret),
		accessTTL:  time.Duration(accessMinutes) * time.Minute,
		refreshTTL: time.Duration(refreshDays) * 24 * time.Hour,
	}
}

func (j *JWTManager) RefreshTTL() time.Duration { return j.refreshTTL }

func (j *JWTManager) GenerateAccessToken(userID string) (string, time.Time, error) {
	return j.generate(userID, "access", j.accessTTL)
}

func (j *JWTManager) GenerateRefreshToken(userID string) (string, time.Time, error) {
	return j.generate(userID, "refresh", j.refreshTTL)
}

func (j *JWTManager) generate(userID, audience string, ttl time.Duration) (string, time.Time, error) {
	exp := time.Now().Add(ttl)
	claims := &CustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Audience:  jwt.ClaimStrings{audience},
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secret)
	return signed, exp, err
}

// Verify parses a token and returns the user id. audience is "access" or
// "refresh"; a token minted for one is rejected by the other.
func (j *JWTManager) Verify(tokenStr, audience string) (string, error) {
	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return j.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}
	if !token.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	found := false
	for _, aud := range claims.Audience {
		if aud == audience {
			found = true
		}
	}
	if !found {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}
