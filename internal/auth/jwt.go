package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const gatewayIssuer = "shareit-gateway"

// DefaultGatewayTokenTTL is the lifetime of tokens issued when no TTL is given.
const DefaultGatewayTokenTTL = 5 * time.Minute

// GatewayClaims are the claims the gateway signs after it has validated a request.
// UserID is zero for calls that do not act on behalf of a user.
type GatewayClaims struct {
	UserID int64 `json:"uid,omitempty"`
	jwt.RegisteredClaims
}

// GatewayTokenManager issues and verifies the HS256 tokens shared with the gateway.
type GatewayTokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewGatewayTokenManager creates a new gateway token manager.
// A non-positive ttl falls back to DefaultGatewayTokenTTL.
func NewGatewayTokenManager(secret string, ttl time.Duration) *GatewayTokenManager {
	if ttl <= 0 {
		ttl = DefaultGatewayTokenTTL
	}
	return &GatewayTokenManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// GenerateToken creates a signed token for the given acting user.
func (m *GatewayTokenManager) GenerateToken(userID int64) (string, error) {
	now := time.Now().UTC()

	claims := &GatewayClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    gatewayIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign jwt: %w", err)
	}

	return signed, nil
}

// ParseAndValidate validates a gateway token and returns the parsed claims.
func (m *GatewayTokenManager) ParseAndValidate(tokenStr string) (*GatewayClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &GatewayClaims{}, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(gatewayIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse jwt: %w", err)
	}

	claims, ok := token.Claims.(*GatewayClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid jwt token")
	}

	return claims, nil
}
