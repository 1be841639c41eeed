package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// TokenIssuer mints and validates the HS256 bearer tokens used by the API.
// Tokens carry the user ID as subject plus issued-at/expiry claims; clients
// cannot forge or extend them without the signing secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("token secret cannot be empty")
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}, nil
}

type TokenData struct {
	UserID   int
	IssuedAt int64
	Exp      int64
}

// Sign creates a signed token for the given user ID.
func (t *TokenIssuer) Sign(userID int) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Validate parses AND validates the signature locally.
// It returns the data if the token is authentic and unexpired.
func (t *TokenIssuer) Validate(tokenString string) (*TokenData, error) {
	clean := sanitizeToken(tokenString)
	if clean == "" {
		return nil, errors.New("missing token")
	}

	token, err := jwt.Parse(clean, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims format")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return nil, errors.New("missing subject claim")
	}

	userID, err := strconv.Atoi(sub)
	if err != nil || userID <= 0 {
		return nil, errors.New("invalid subject claim")
	}

	return &TokenData{
		UserID:   userID,
		IssuedAt: getInt64(claims, "iat"),
		Exp:      getInt64(claims, "exp"),
	}, nil
}

// ParseTokenDataCtx validates the Authorization header of the request.
func (t *TokenIssuer) ParseTokenDataCtx(ctx echo.Context) (*TokenData, error) {
	token := ctx.Request().Header.Get(echo.HeaderAuthorization)
	return t.Validate(token)
}

func sanitizeToken(token string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
}

func getInt64(claims jwt.MapClaims, key string) int64 {
	val, ok := claims[key]
	if !ok {
		return 0
	}
	if f, ok := val.(float64); ok {
		return int64(f)
	}
	if i, ok := val.(int64); ok {
		return i
	}
	return 0
}
