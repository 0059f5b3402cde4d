package realtime

import (
	"context"
	"sync"
)

const subscriberBuffer = 16

// Hubはプロセス内の購読者グループ（店舗IDごと）。
// 接続時にJoin、切断時にLeave。永続化も再送もしない。
type Hub struct {
	mu     sync.RWMutex
	groups map[int64]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{groups: make(map[int64]map[chan Event]struct{})}
}

func (h *Hub) Join(restaurantID int64) chan Event {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()
	g, ok := h.groups[restaurantID]
	if !ok {
		g = make(map[chan Event]struct{})
		h.groups[restaurantID] = g
	}
	g[ch] = struct{}{}
	return ch
}

// Leaveはbest-effort。知らないチャンネルでも何もしない。
func (h *Hub) Leave(restaurantID int64, ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	g, ok := h.groups[restaurantID]
	if !ok {
		return
	}
	if _, ok := g[ch]; !ok {
		return
	}
	delete(g, ch)
	close(ch)
	if len(g) == 0 {
		delete(h.groups, restaurantID)
	}
}

// Publishは全購読者へノンブロッキング送信。
// バッファが詰まっている購読者へはそのイベントを落とす（配信保証なし）。
func (h *Hub) Publish(ctx context.Context, restaurantID int64, ev Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.groups[restaurantID] {
		select {
		case ch <- ev:
		default:
		}
	}
	return nil
}

// 現在の購読者数（テストと診断用）
func (h *Hub) SubscriberCount(restaurantID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[restaurantID])
}
