package interfaces

import (
	"github.com/iwtcode/brotherAdapter/internal/domain/entities"
)

// MachineRepository определяет контракт для работы с сохраненными станками.
// Отсутствие записи возвращается как errors.ErrDataNotFound.
type MachineRepository interface {
	GetByEndpoint(endpoint string) (*entities.Machine, error)
	Save(machine *entities.Machine) error
	UpdateStatus(endpoint, status string, failures int) error
}
