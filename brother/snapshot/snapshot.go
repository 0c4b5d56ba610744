// Package snapshot хранит последнее известное состояние станка в виде плоского набора полей.
package snapshot

import (
	"sync"
	"time"
)

// Snapshot - потокобезопасное хранилище полей телеметрии.
// Поля только добавляются и перезаписываются, но никогда не удаляются:
// редко обновляемые семейства (инструменты, смещения) переживают быстрые циклы опроса.
type Snapshot struct {
	mu      sync.RWMutex
	fields  map[string]string
	updated time.Time
}

func New() *Snapshot {
	return &Snapshot{fields: make(map[string]string)}
}

// Merge перезаписывает переданные ключи, остальные оставляет как есть.
// Все поля одного вызова становятся видимыми читателям одновременно.
// Возвращает количество записанных полей.
func (s *Snapshot) Merge(fields map[string]string) int {
	if len(fields) == 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range fields {
		s.fields[k] = v
	}
	s.updated = time.Now()
	return len(fields)
}

// Read возвращает копию всех полей.
func (s *Snapshot) Read() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.fields))
	for k, v := range s.fields {
		out[k] = v
	}
	return out
}

func (s *Snapshot) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.fields[key]
	return v, ok
}

func (s *Snapshot) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fields)
}

// UpdatedAt - время последнего непустого Merge. Нулевое значение, если данных еще не было.
func (s *Snapshot) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updated
}
