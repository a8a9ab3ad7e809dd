package emulator

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleUser    = "user"
	RoleService = "service"
)

const (
	DefaultTokenTTL    = 7 * 24 * time.Hour
	minSecretKeyLength = 32
	insecureSecretKey  = "change_me_in_production"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token expired")
	ErrWeakSecretKey = errors.New("secret key must be at least 32 characters and not the placeholder")
	ErrMissingUserID = errors.New("user id is required")
)

// Claims identify the caller. Service tokens act on behalf of every user and are
// used by the reminder notifier.
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (claims *Claims) IsService() bool {
	return claims != nil && claims.Role == RoleService
}

// CanActAs reports whether the caller may read or write documents owned by userID.
func (claims *Claims) CanActAs(userID string) bool {
	if claims == nil {
		return false
	}
	return claims.IsService() || (userID != "" && claims.UserID == userID)
}

func ResolveSecretKey(raw string) (string, error) {
	secret := strings.TrimSpace(raw)
	if secret == "" || secret == insecureSecretKey || len(secret) < minSecretKeyLength {
		return "", ErrWeakSecretKey
	}
	return secret, nil
}

func IssueToken(secretKey []byte, userID string, role string, ttl time.Duration) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", ErrMissingUserID
	}
	if role != RoleService {
		role = RoleUser
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := time.Now()

	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey)
}

// ParseToken verifies the signature before looking at the expiry, so only a token
// this emulator signed can be reported as ErrTokenExpired.
func ParseToken(secretKey []byte, rawToken string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	claims := &Claims{}
	token, err := parser.ParseWithClaims(rawToken, claims, func(*jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.Time.After(time.Now()) {
		return nil, ErrTokenExpired
	}
	return claims, nil
}
