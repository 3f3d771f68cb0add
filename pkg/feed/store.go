// Package feed Polymarket 行情 WebSocket 客户端。
// 订阅按 asset id 进行，price_change 事件写入每资产的“最新值槽”：
// 槽只保留最后一个报价，读取方按需取用，慢消费不会堆积历史。
package feed

import (
	"sync"
	"time"
)

// Quote 单个资产的最新报价
type Quote struct {
	Price     float64
	BestBid   float64
	BestAsk   float64
	UpdatedAt time.Time
}

// HasBook 买一卖一是否齐备
func (q Quote) HasBook() bool {
	return q.BestBid > 0 && q.BestAsk > 0
}

// Store 每资产最新值槽。写入覆盖，读取非破坏性。
type Store struct {
	mu     sync.RWMutex
	quotes map[string]Quote
}

// NewStore 创建空槽存储
func NewStore() *Store {
	return &Store{quotes: make(map[string]Quote)}
}

// Put 覆盖写入一个资产的最新报价
func (s *Store) Put(assetID string, q Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes[assetID] = q
}

// Latest 读取一个资产的最新报价；从未收到过时 ok=false
func (s *Store) Latest(assetID string) (Quote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quotes[assetID]
	return q, ok
}

// Fresh 读取报价并校验新鲜度：UpdatedAt 距今超过 maxAge 视为过期
func (s *Store) Fresh(assetID string, maxAge time.Duration) (Quote, bool) {
	q, ok := s.Latest(assetID)
	if !ok {
		return Quote{}, false
	}
	if maxAge > 0 && time.Since(q.UpdatedAt) > maxAge {
		return Quote{}, false
	}
	return q, true
}
