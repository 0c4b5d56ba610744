package interfaces

import (
	"github.com/iwtcode/brotherAdapter/internal/domain/models"
)

// Usecases - это агрегирующий интерфейс для всех use cases
type Usecases interface {
	Probe() ([]byte, error)
	Current() ([]byte, error)
	Sample() ([]byte, error)
	Health() models.HealthResponse
}
