package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/kurvfo/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Storage persists the serialized shopping list under one key.
// Load returns nil, nil when nothing has been stored yet.
type Storage interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, payload []byte) error
}

// SQLStorage keeps the list in the cart_states table.
type SQLStorage struct {
	db  *gorm.DB
	key string
}

// NewSQLStorage binds a storage handle to db and key.
func NewSQLStorage(db *gorm.DB, key string) (*SQLStorage, error) {
	if db == nil {
		return nil, fmt.Errorf("cart db required")
	}
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("cart storage key required")
	}
	return &SQLStorage{db: db, key: key}, nil
}

func (s *SQLStorage) Load(ctx context.Context) ([]byte, error) {
	var state models.CartState
	err := s.db.WithContext(ctx).
		Where(&models.CartState{Key: s.key}).
		Take(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(state.Payload), nil
}

func (s *SQLStorage) Save(ctx context.Context, payload []byte) error {
	state := models.CartState{
		Key:       s.key,
		Payload:   string(payload),
		UpdatedAt: time.Now().UTC(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&state).Error
}

type redisStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	GetBytes(ctx context.Context, key string) ([]byte, error)
	CartKey(storageKey string) string
}

// RedisStorage keeps the list as a single Redis string.
type RedisStorage struct {
	client redisStore
	key    string
	isNil  func(error) bool
}

// NewRedisStorage binds a storage handle to the namespaced cart key.
func NewRedisStorage(client redisStore, key string, isNil func(error) bool) (*RedisStorage, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("cart storage key required")
	}
	if isNil == nil {
		isNil = func(error) bool { return false }
	}
	return &RedisStorage{client: client, key: client.CartKey(key), isNil: isNil}, nil
}

func (s *RedisStorage) Load(ctx context.Context) ([]byte, error) {
	payload, err := s.client.GetBytes(ctx, s.key)
	if err != nil {
		if s.isNil(err) {
			return nil, nil
		}
		return nil, err
	}
	return payload, nil
}

func (s *RedisStorage) Save(ctx context.Context, payload []byte) error {
	return s.client.Set(ctx, s.key, payload, 0)
}

// MemoryStorage keeps the list in process. Contents are lost on exit.
type MemoryStorage struct {
	mu      sync.Mutex
	payload []byte
	saves   int
}

// NewMemoryStorage returns storage seeded with payload, which may be nil.
func NewMemoryStorage(payload []byte) *MemoryStorage {
	return &MemoryStorage{payload: cloneBytes(payload)}
}

func (s *MemoryStorage) Load(context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneBytes(s.payload), nil
}

func (s *MemoryStorage) Save(_ context.Context, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payload = cloneBytes(payload)
	s.saves++
	return nil
}

// Saves reports how many writes have landed.
func (s *MemoryStorage) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
