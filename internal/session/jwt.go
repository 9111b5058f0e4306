package session

import (
	"context"
	"fmt"
	"time"

	"github.com/Angel-crypt/backend-we/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTStore issues signed stateless tokens. Delete is a no-op: a token stays
// valid until it expires, the client only drops the cookie.
type JWTStore struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTStore(secret, issuer string, ttl time.Duration) *JWTStore {
	return &JWTStore{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *JWTStore) Create(_ context.Context, sess Session) (string, error) {
	now := s.now().UTC()
	claims := Claims{
		UserID: sess.UserID,
		Role:   sess.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   sess.UserID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

func (s *JWTStore) Get(_ context.Context, tokenString string) (*Session, error) {
	if tokenString == "" {
		return nil, ErrNotFound
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, ErrNotFound
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrNotFound
	}
	role, err := models.ParseRole(claims.Role)
	if err != nil {
		return nil, ErrNotFound
	}

	sess := &Session{UserID: claims.UserID, Role: role}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess, nil
}

func (s *JWTStore) Delete(context.Context, string) error {
	return nil
}
