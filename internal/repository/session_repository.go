package repository

import (
	"context"
	"encoding/json"
	"exam_architect_backend/internal/model"
	"exam_architect_backend/pkg/logger"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	sessionKeyPrefix = "examSession_"
	windowClosedKey  = "windowWasClosed"
)

// SessionRepository 编辑会话的持久化桥：草稿快照与"窗口已关闭"标记。
// 显式注入而不是环境全局，便于在没有真实存储的情况下对
// 恢复/重新开始启发式做单元测试。
type SessionRepository interface {
	SaveSession(ctx context.Context, examID string, state *model.ExamSessionState) error
	GetSession(ctx context.Context, examID string) (*model.ExamSessionState, error)
	ClearSession(ctx context.Context, examID string) error
	SetWindowClosed(ctx context.Context, closed bool) error
	WasWindowClosed(ctx context.Context) (bool, error)
}

// RedisSessionRepository Redis 实现，会话键带 TTL
type RedisSessionRepository struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewRedisSessionRepository(rdb *redis.Client, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{Redis: rdb, TTL: ttl}
}

func (r *RedisSessionRepository) SaveSession(ctx context.Context, examID string, state *model.ExamSessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return r.Redis.Set(ctx, sessionKeyPrefix+examID, data, r.TTL).Err()
}

// GetSession 不存在或数据损坏时返回 (nil, nil)：按"无已保存状态"处理
func (r *RedisSessionRepository) GetSession(ctx context.Context, examID string) (*model.ExamSessionState, error) {
	val, err := r.Redis.Get(ctx, sessionKeyPrefix+examID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var state model.ExamSessionState
	if err := json.Unmarshal([]byte(val), &state); err != nil {
		logger.Log.Error("Corrupt exam session in redis, treating as empty",
			zap.String("examId", examID), zap.Error(err))
		return nil, nil
	}
	return &state, nil
}

func (r *RedisSessionRepository) ClearSession(ctx context.Context, examID string) error {
	return r.Redis.Del(ctx, sessionKeyPrefix+examID).Err()
}

func (r *RedisSessionRepository) SetWindowClosed(ctx context.Context, closed bool) error {
	data, _ := json.Marshal(closed)
	return r.Redis.Set(ctx, windowClosedKey, data, 0).Err()
}

func (r *RedisSessionRepository) WasWindowClosed(ctx context.Context) (bool, error) {
	val, err := r.Redis.Get(ctx, windowClosedKey).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var closed bool
	if err := json.Unmarshal([]byte(val), &closed); err != nil {
		logger.Log.Error("Corrupt window closed flag, treating as false", zap.Error(err))
		return false, nil
	}
	return closed, nil
}

// MemorySessionRepository 内存实现，测试和无 Redis 的本地调试用
type MemorySessionRepository struct {
	mu           sync.RWMutex
	sessions     map[string][]byte
	windowClosed bool
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: map[string][]byte{}}
}

func (m *MemorySessionRepository) SaveSession(ctx context.Context, examID string, state *model.ExamSessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[examID] = data
	return nil
}

func (m *MemorySessionRepository) GetSession(ctx context.Context, examID string) (*model.ExamSessionState, error) {
	m.mu.RLock()
	data, ok := m.sessions[examID]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	var state model.ExamSessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, nil
	}
	return &state, nil
}

func (m *MemorySessionRepository) ClearSession(ctx context.Context, examID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, examID)
	return nil
}

func (m *MemorySessionRepository) SetWindowClosed(ctx context.Context, closed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.windowClosed = closed
	return nil
}

func (m *MemorySessionRepository) WasWindowClosed(ctx context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.windowClosed, nil
}

// CorruptSession 测试辅助：向存储写入非法 JSON
func (m *MemorySessionRepository) CorruptSession(examID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[examID] = []byte("{not json")
}
