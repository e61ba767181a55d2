package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"go-task-manager/internal/model"
)

// TokenKindAccess is the discriminator carried in the typ claim. Any
// future token kind (refresh, reset) must use a different value so the
// kinds cannot be swapped for one another.
const TokenKindAccess = "access"

// TokenService issues and verifies HMAC-signed bearer tokens. It keeps
// no record of what it issued: a token stays valid until its exp claim,
// there is no revocation.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret is required")
	}

	return &TokenService{secret: []byte(secret)}, nil
}

// Issue signs an access token for the given subject, valid for ttl.
func (s *TokenService) Issue(subject int64, username string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      strconv.FormatInt(subject, 10),
		"username": username,
		"typ":      TokenKindAccess,
		"jti":      uuid.NewString(),
		"iat":      now.Unix(),
		"exp":      expiresAt.Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify parses and checks a token string. It fails with
// model.ErrTokenExpired past exp, model.ErrTokenWrongKind when typ is
// not "access", and model.ErrTokenMalformed for everything else that
// keeps the token from being trusted.
func (s *TokenService) Verify(tokenString string) (*model.AuthClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, model.ErrTokenExpired
		}
		return nil, model.ErrTokenMalformed
	}
	if !parsed.Valid {
		return nil, model.ErrTokenMalformed
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, model.ErrTokenMalformed
	}

	kind, _ := claimsMap["typ"].(string)
	if kind != TokenKindAccess {
		return nil, model.ErrTokenWrongKind
	}

	sub, _ := claimsMap["sub"].(string)
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || userID <= 0 {
		return nil, model.ErrTokenMalformed
	}

	claims := &model.AuthClaims{UserID: userID, Kind: kind}
	claims.Username, _ = claimsMap["username"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)

	if issuedAt, err := claimsMap.GetIssuedAt(); err == nil && issuedAt != nil {
		claims.IssuedAt = issuedAt.Time
	}
	if expiresAt, err := claimsMap.GetExpirationTime(); err == nil && expiresAt != nil {
		claims.ExpiresAt = expiresAt.Time
	}

	return claims, nil
}
