package services

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// ErrInvalidToken is returned for any bearer token that cannot be trusted.
var ErrInvalidToken = errors.New("invalid token")

// IdentityService verifies tokens issued by the external identity provider
// and extracts the user id from them. Users never authenticate against
// this service directly.
type IdentityService struct {
	secret    []byte
	publicKey *rsa.PublicKey
	issuer    string
}

// NewIdentityService accepts either an HMAC secret or an RSA public key in
// PEM form. When both are set the public key wins. issuer is optional.
func NewIdentityService(secret, publicKeyPEM, issuer string) (*IdentityService, error) {
	s := &IdentityService{secret: []byte(secret), issuer: issuer}
	if publicKeyPEM != "" {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("parse identity public key: %w", err)
		}
		s.publicKey = key
	}
	if s.publicKey == nil && len(s.secret) == 0 {
		return nil, fmt.Errorf("identity verification needs IDENTITY_JWT_SECRET or IDENTITY_JWT_PUBLIC_KEY")
	}
	return s, nil
}

func (s *IdentityService) keyFunc(token *jwt.Token) (interface{}, error) {
	if s.publicKey != nil {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.publicKey, nil
	}
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return s.secret, nil
}

// VerifyToken checks signature, expiry and issuer and returns the subject
// claim as the user id.
func (s *IdentityService) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, s.keyFunc)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	if s.issuer != "" && !claims.VerifyIssuer(s.issuer, true) {
		return "", fmt.Errorf("%w: unexpected issuer", ErrInvalidToken)
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return sub, nil
}

// IssueToken signs an HS256 token for userID. It exists for local
// development and tests, where no identity provider is running.
func (s *IdentityService) IssueToken(userID string, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("issuing tokens needs IDENTITY_JWT_SECRET")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	if s.issuer != "" {
		claims["iss"] = s.issuer
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
