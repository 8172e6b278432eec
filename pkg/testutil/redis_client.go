package testutil

import (
	"context"
	"encoding/json"
	"path"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MockRedisClient is an in-memory xredis.Client. The zero value is ready
// to use.
type MockRedisClient struct {
	mutex  sync.Mutex
	values map[string]string
}

func (m *MockRedisClient) Exist(ctx context.Context, key string) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	_, ok := m.values[key]
	return ok, nil
}

func (m *MockRedisClient) Del(ctx context.Context, key ...string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, k := range key {
		delete(m.values, k)
	}

	return nil
}

func (m *MockRedisClient) Keys(ctx context.Context, pattern string) ([]string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	var keys []string
	for k := range m.values {
		if ok, _ := path.Match(pattern, k); ok {
			keys = append(keys, k)
		}
	}

	return keys, nil
}

func (m *MockRedisClient) Set(ctx context.Context, key, value string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.set(key, value)
	return nil
}

func (m *MockRedisClient) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.set(key, string(b))
	return nil
}

func (m *MockRedisClient) MSet(ctx context.Context, kv map[string]any) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for k, v := range kv {
		if s, ok := v.(string); ok {
			m.set(k, s)
			continue
		}

		b, err := json.Marshal(v)
		if err != nil {
			return err
		}

		m.set(k, string(b))
	}

	return nil
}

func (m *MockRedisClient) Get(ctx context.Context, key string) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	value, ok := m.values[key]
	if !ok {
		return "", redis.Nil
	}

	return value, nil
}

func (m *MockRedisClient) GetObj(ctx context.Context, key string, v any) error {
	s, err := m.Get(ctx, key)
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(s), v)
}

func (m *MockRedisClient) MGet(ctx context.Context, keys ...string) ([]any, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	result := make([]any, 0, len(keys))
	for _, k := range keys {
		if value, ok := m.values[k]; ok {
			result = append(result, value)
		} else {
			result = append(result, nil)
		}
	}

	return result, nil
}

func (m *MockRedisClient) set(key, value string) {
	if m.values == nil {
		m.values = map[string]string{}
	}

	m.values[key] = value
}
