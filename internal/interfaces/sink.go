package interfaces

import (
	"context"
)

// SnapshotSink определяет контракт для отправки снимка во внешние системы
type SnapshotSink interface {
	Name() string
	Publish(ctx context.Context, key, value []byte) error
	Close() error
}
