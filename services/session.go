package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lborres/inventrack/core"
	"github.com/lborres/inventrack/pkg/crypto"
)

// SessionManager issues and verifies stateless session tokens. Nothing is
// stored server-side; a token is valid until it expires.
type SessionManager struct {
	config core.SessionConfig
	ids    *crypto.IDGenerator
	now    func() time.Time
}

func NewSessionManager(config core.SessionConfig) *SessionManager {
	if config.MaxAge <= 0 {
		config.MaxAge = core.DefaultSessionMaxAge
	}
	if config.Issuer == "" {
		config.Issuer = core.DefaultIssuer
	}
	ids, err := crypto.NewIDGenerator()
	if err != nil {
		// default alphabet and size are constants
		panic(fmt.Sprintf("session id generator: %v", err))
	}
	return &SessionManager{config: config, ids: ids, now: time.Now}
}

func (sm *SessionManager) MaxAge() time.Duration { return sm.config.MaxAge }

// Issue signs a token for accountID, valid for MaxAge from now.
func (sm *SessionManager) Issue(accountID string) (*core.IssuedSession, error) {
	if accountID == "" {
		return nil, errors.New("account id is required")
	}
	if sm.ids == nil {
		return nil, errors.New("session manager has no id generator; use NewSessionManager")
	}

	tokenID, err := sm.ids.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token id: %w", err)
	}

	now := sm.now()
	expiresAt := now.Add(sm.config.MaxAge)
	claims := jwt.RegisteredClaims{
		Subject:   accountID,
		Issuer:    sm.config.Issuer,
		ID:        tokenID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(sm.config.Secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return &core.IssuedSession{Token: signed, ExpiresAt: expiresAt}, nil
}

// Verify checks signature, algorithm, issuer and expiry and returns the
// identity the token carries.
func (sm *SessionManager) Verify(token string) (*core.Identity, error) {
	if token == "" {
		return nil, core.ErrMissingToken
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return []byte(sm.config.Secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sm.config.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(sm.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, core.ErrSessionExpired
		}
		return nil, core.ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, core.ErrInvalidToken
	}

	identity := &core.Identity{
		AccountID: claims.Subject,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		identity.IssuedAt = claims.IssuedAt.Time
	}
	return identity, nil
}
