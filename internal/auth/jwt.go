package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/zhenghongliu48-sys/mymap/internal/models"
	"github.com/zhenghongliu48-sys/mymap/internal/storage"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("authorization token required")
)

// SessionStorage is the persistence needed to back session tokens.
type SessionStorage interface {
	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, id string) (*models.Session, error)
	DeleteSession(ctx context.Context, id string) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// Claims represents the JWT claims for a user session.
// ID (jti) names the server-side session and Subject holds the user ID.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SessionManager issues signed session tokens and resolves them back to
// an identity. Every token is backed by a session row, so ending the
// session revokes the token before it expires.
type SessionManager struct {
	storage       SessionStorage
	secretKey     []byte
	tokenDuration time.Duration
	now           func() time.Time
}

// NewSessionManager creates a session manager with the given secret and token duration.
// secretKey should be a strong random string (e.g., 32 bytes).
func NewSessionManager(storage SessionStorage, secretKey string, tokenDuration time.Duration) *SessionManager {
	return &SessionManager{
		storage:       storage,
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
		now:           time.Now,
	}
}

// TTL returns how long issued tokens stay valid.
func (m *SessionManager) TTL() time.Duration {
	return m.tokenDuration
}

// Start records a new session for user and returns its signed token.
func (m *SessionManager) Start(ctx context.Context, user *models.User) (string, error) {
	now := m.now()
	expiresAt := now.Add(m.tokenDuration)

	session := &models.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		CreatedAt: now.Unix(),
		ExpiresAt: expiresAt.Unix(),
	}
	if err := m.storage.CreateSession(ctx, session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	claims := &Claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   strconv.FormatInt(user.ID, 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Resolve validates a token and returns the identity of its session.
// The token must carry a valid signature and the session must still exist.
func (m *SessionManager) Resolve(ctx context.Context, tokenString string) (*models.Identity, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims, err := m.validate(tokenString)
	if err != nil {
		return nil, err
	}

	session, err := m.storage.GetSession(ctx, claims.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session.Expired(m.now()) || strconv.FormatInt(session.UserID, 10) != claims.Subject {
		return nil, ErrInvalidToken
	}

	user, err := m.storage.GetUserByID(ctx, session.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return &models.Identity{UserID: user.ID, Username: user.Username}, nil
}

// End deletes the session behind the token. Ending an unknown or already
// ended session is not an error.
func (m *SessionManager) End(ctx context.Context, tokenString string) error {
	claims, err := m.validate(tokenString)
	if err != nil {
		return err
	}
	if err := m.storage.DeleteSession(ctx, claims.ID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// validate parses and validates a JWT token, returning the claims if valid.
func (m *SessionManager) validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			// Verify the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
		jwt.WithTimeFunc(m.now),
	)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
