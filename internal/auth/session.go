package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/clmblockchain/devpool/internal/models"
)

// SessionClaims are the claims carried by an admin session token. LoginTime
// is fixed at login; LastActivity moves forward on every guarded request.
type SessionClaims struct {
	Username     string           `json:"username"`
	LoginTime    *jwt.NumericDate `json:"login_time"`
	LastActivity *jwt.NumericDate `json:"last_activity"`
	jwt.RegisteredClaims
}

// SessionManager mints and validates signed admin session tokens. A token
// expires after idleTimeout of inactivity; refreshing it on each request
// implements the sliding window.
type SessionManager struct {
	secret      string
	idleTimeout time.Duration
	now         func() time.Time
}

func NewSessionManager(secret string, idleTimeout time.Duration) *SessionManager {
	return &SessionManager{
		secret:      secret,
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

// Issue creates a fresh session token for a just-authenticated admin.
func (sm *SessionManager) Issue(username string) (string, error) {
	now := sm.now()
	claims := &SessionClaims{
		Username:     username,
		LoginTime:    jwt.NewNumericDate(now),
		LastActivity: jwt.NewNumericDate(now),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(sm.idleTimeout)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(sm.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a session token. Expired or tampered tokens
// come back as ErrUnauthorized.
func (sm *SessionManager) Validate(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(sm.secret), nil
	}, jwt.WithTimeFunc(sm.now))

	if err != nil || !token.Valid {
		return nil, models.ErrUnauthorized
	}
	if claims.Username == "" {
		return nil, models.ErrUnauthorized
	}
	return claims, nil
}

// Refresh re-signs the claims with LastActivity and the expiry moved to
// now+idleTimeout, keeping the original LoginTime.
func (sm *SessionManager) Refresh(claims *SessionClaims) (string, error) {
	now := sm.now()
	refreshed := &SessionClaims{
		Username:     claims.Username,
		LoginTime:    claims.LoginTime,
		LastActivity: jwt.NewNumericDate(now),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(sm.idleTimeout)),
			IssuedAt:  claims.IssuedAt,
			NotBefore: claims.NotBefore,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshed)
	signed, err := token.SignedString([]byte(sm.secret))
	if err != nil {
		return "", fmt.Errorf("failed to refresh session token: %w", err)
	}
	return signed, nil
}

// IdleTimeout reports the configured inactivity window.
func (sm *SessionManager) IdleTimeout() time.Duration {
	return sm.idleTimeout
}
