package utils

import (
	"slices"
	"sync"
	"sync/atomic"
)

// EventType 事件类型
type EventType uint16

// Event 事件
type Event struct {
	Type  EventType // 事件类型
	Time  float64   // 仿真时间
	Value any       // 事件内容
}

// subscriber 订阅者
type subscriber struct {
	ch    chan Event
	types []EventType // 为空表示全部
}

func (s *subscriber) wants(t EventType) bool {
	return len(s.types) == 0 || slices.Contains(s.types, t)
}

// Bus 发布订阅,发送不阻塞,订阅者通道满时丢弃
type Bus struct {
	mu      sync.RWMutex
	subs    map[int]*subscriber
	nextID  int
	closed  bool
	dropped atomic.Uint64
}

// NewBus 创建事件总线
func NewBus() *Bus {
	return &Bus{subs: map[int]*subscriber{}}
}

// Subscribe 订阅事件,返回接收通道与取消函数
func (b *Bus) Subscribe(buffer int, types ...EventType) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 64
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan Event, buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = &subscriber{ch: ch, types: types}
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if s, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(s.ch)
			}
		})
	}
}

// Publish 发送事件,返回成功送达的订阅者数量
func (b *Bus) Publish(e Event) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return 0
	}
	n := 0
	for _, s := range b.subs {
		if !s.wants(e.Type) {
			continue
		}
		select {
		case s.ch <- e:
			n++
		default:
			if b.dropped.Add(1)%100 == 1 {
				GetLogger().Warnf("订阅者处理过慢,事件 %d 被丢弃", e.Type)
			}
		}
	}
	return n
}

// Dropped 丢弃的事件数量
func (b *Bus) Dropped() uint64 { return b.dropped.Load() }

// Subscribers 订阅者数量
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close 关闭全部订阅通道
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, s := range b.subs {
		close(s.ch)
		delete(b.subs, id)
	}
}
