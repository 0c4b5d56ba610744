package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/iwtcode/brotherAdapter/internal/domain/entities"
	"github.com/iwtcode/brotherAdapter/internal/interfaces"
	apperrors "github.com/iwtcode/brotherAdapter/pkg/errors"
)

// MachineRepository хранит станки в памяти процесса. Используется, когда БД выключена.
type MachineRepository struct {
	mu       sync.RWMutex
	nextID   uint
	machines map[string]entities.Machine
}

func NewMachineRepository() interfaces.MachineRepository {
	return &MachineRepository{machines: make(map[string]entities.Machine)}
}

func (r *MachineRepository) GetByEndpoint(endpoint string) (*entities.Machine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.machines[endpoint]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrDataNotFound, endpoint)
	}
	return &m, nil
}

func (r *MachineRepository) Save(machine *entities.Machine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if existing, ok := r.machines[machine.Endpoint]; ok {
		machine.ID = existing.ID
		machine.CreatedAt = existing.CreatedAt
	} else {
		r.nextID++
		machine.ID = r.nextID
		machine.CreatedAt = now
	}
	machine.UpdatedAt = now
	r.machines[machine.Endpoint] = *machine
	return nil
}

func (r *MachineRepository) UpdateStatus(endpoint, status string, failures int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.machines[endpoint]
	if !ok {
		return fmt.Errorf("%w: %s", apperrors.ErrDataNotFound, endpoint)
	}
	now := time.Now()
	m.Status = status
	m.ConsecutiveFailures = failures
	m.UpdatedAt = now
	if status == entities.StatusPolling {
		m.LastSeenAt = &now
	}
	r.machines[endpoint] = m
	return nil
}
