package filter

import (
	"time"

	"geo-legend/internal/cache"
	"geo-legend/internal/metrics"

	"github.com/google/uuid"
)

// Sessions：会话 ID 到筛选状态的映射，超出容量或过期后按新会话处理
type Sessions struct {
	lru *cache.LRU[string, *State]
}

func NewSessions(capacity int, ttl time.Duration) *Sessions {
	return &Sessions{lru: cache.NewLRU[string, *State](capacity, ttl)}
}

// NewID：生成新的会话 ID
func NewID() string { return uuid.NewString() }

// ValidID：仅接受 uuid 格式的会话 ID
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Get：取会话状态，不存在时创建
func (s *Sessions) Get(id string) *State {
	st := s.lru.GetOrCreate(id, func() *State { return &State{} })
	metrics.ActiveSessions.Set(float64(s.lru.Len()))
	return st
}

func (s *Sessions) Len() int { return s.lru.Len() }
