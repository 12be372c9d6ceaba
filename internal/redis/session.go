package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

const (
	// SessionPrefix is prepended to all session keys in Redis to namespace them
	// and avoid conflicts with other data stored in the same Redis instance.
	SessionPrefix = "session:"

	// SessionTTL is how long a session lives without activity. Reads
	// refresh the expiry, so active users stay signed in.
	SessionTTL = 7 * 24 * time.Hour
)

var ErrSessionNotFound = errors.New("session not found")

// Session is the authenticated state stored per bearer token.
type Session struct {
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	LastSeen  time.Time `json:"lastSeen"`
}

// SessionStore manages bearer token sessions using Redis as the backing
// store. Sessions are prefixed and stored with automatic expiration.
type SessionStore struct {
	client rueidis.Client
	logger *zap.Logger
}

// NewSessionStore creates a session store backed by the session database.
func NewSessionStore(manager *Manager, logger *zap.Logger) (*SessionStore, error) {
	client, err := manager.GetClient(SessionDBIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to get Redis client: %w", err)
	}

	return &SessionStore{
		client: client,
		logger: logger.Named("session_store"),
	}, nil
}

// Create stores a new session and returns its bearer token.
func (s *SessionStore) Create(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	now := time.Now().UTC()

	data, err := sonic.Marshal(&Session{
		UserID:    userID,
		CreatedAt: now,
		LastSeen:  now,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}

	err = s.client.Do(ctx, s.client.B().Set().Key(SessionPrefix+token).
		Value(rueidis.BinaryString(data)).Ex(SessionTTL).Build()).Error()
	if err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	return token, nil
}

// Get resolves a bearer token to its session and refreshes the expiry.
func (s *SessionStore) Get(ctx context.Context, token string) (*Session, error) {
	key := SessionPrefix + token

	data, err := s.client.Do(ctx, s.client.B().Getex().Key(key).
		ExSeconds(int64(SessionTTL.Seconds())).Build()).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session Session
	if err := sonic.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}

	return &session, nil
}

// Delete removes a session, signing the holder out.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	err := s.client.Do(ctx, s.client.B().Del().Key(SessionPrefix+token).Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
