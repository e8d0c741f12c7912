package common

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "communitychat"

// Claims carries the portal identity of a chat actor.
type Claims struct {
	UserID      uint64 `json:"user_id"`
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager signs and validates actor tokens. Tokens are issued by the
// portal session layer; the chat service only needs to validate them, but
// signing is kept for tests and the CLI.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: 24 * time.Hour}
}

func (m *TokenManager) GenerateToken(userID uint64, handle, displayName string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:      userID,
		Handle:      handle,
		DisplayName: displayName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   "chat-actor",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(m.secret)
}

func (m *TokenManager) ValidToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		if claims.UserID == 0 {
			return nil, errors.New("token has no user id")
		}
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// Actor is the authenticated caller of a chat operation.
type Actor struct {
	UserID      uint64
	Handle      string
	DisplayName string
}

func (c *Claims) Actor() Actor {
	return Actor{UserID: c.UserID, Handle: c.Handle, DisplayName: c.DisplayName}
}

// UnverifiedActor reads the actor out of a token without checking its
// signature. Clients use it to learn who they are; servers never do.
func UnverifiedActor(tokenString string) (Actor, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return Actor{}, err
	}
	if claims.UserID == 0 {
		return Actor{}, errors.New("token has no user id")
	}
	return claims.Actor(), nil
}
