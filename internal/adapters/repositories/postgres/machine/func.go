package machine

import (
	"errors"
	"fmt"
	"time"

	"github.com/iwtcode/brotherAdapter/internal/domain/entities"
	apperrors "github.com/iwtcode/brotherAdapter/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (r *MachineRepositoryImpl) GetByEndpoint(endpoint string) (*entities.Machine, error) {
	var machine entities.Machine
	err := r.db.Where("endpoint = ?", endpoint).First(&machine).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrDataNotFound, endpoint)
	}
	if err != nil {
		return nil, err
	}
	return &machine, nil
}

// Save создает запись или обновляет существующую с тем же endpoint
func (r *MachineRepositoryImpl) Save(machine *entities.Machine) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"device_uuid", "control_version", "unit_system", "status",
			"consecutive_failures", "last_seen_at", "updated_at",
		}),
	}).Create(machine).Error
}

// UpdateStatus обновляет статус опроса. Успешный опрос также обновляет last_seen_at.
func (r *MachineRepositoryImpl) UpdateStatus(endpoint, status string, failures int) error {
	updates := map[string]interface{}{
		"status":               status,
		"consecutive_failures": failures,
	}
	if status == entities.StatusPolling {
		updates["last_seen_at"] = time.Now()
	}
	result := r.db.Model(&entities.Machine{}).Where("endpoint = ?", endpoint).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrDataNotFound, endpoint)
	}
	return nil
}
