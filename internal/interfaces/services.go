package interfaces

import (
	"context"

	"github.com/iwtcode/brotherAdapter/internal/domain/models"
)

// PollingManager определяет контракт для фонового опроса станка.
type PollingManager interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Status() models.PollStatus
}
