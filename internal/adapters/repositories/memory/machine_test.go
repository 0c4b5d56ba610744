package memory

import (
	"errors"
	"testing"

	"github.com/iwtcode/brotherAdapter/internal/domain/entities"
	apperrors "github.com/iwtcode/brotherAdapter/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndGet(t *testing.T) {
	repo := NewMachineRepository()

	_, err := repo.GetByEndpoint("10.0.0.1:10000")
	assert.True(t, errors.Is(err, apperrors.ErrDataNotFound))

	m := &entities.Machine{Endpoint: "10.0.0.1:10000", DeviceUUID: "u-1", Status: entities.StatusDetecting}
	require.NoError(t, repo.Save(m))
	assert.Equal(t, uint(1), m.ID)

	got, err := repo.GetByEndpoint("10.0.0.1:10000")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.DeviceUUID)
	assert.Nil(t, got.LastSeenAt)

	// Повторное сохранение обновляет запись, а не создает новую.
	again := &entities.Machine{Endpoint: "10.0.0.1:10000", DeviceUUID: "u-1", ControlVersion: "D00"}
	require.NoError(t, repo.Save(again))
	assert.Equal(t, m.ID, again.ID)
	assert.Equal(t, m.CreatedAt, again.CreatedAt)
}

func TestUpdateStatus(t *testing.T) {
	repo := NewMachineRepository()
	err := repo.UpdateStatus("missing:1", entities.StatusPolling, 0)
	assert.True(t, errors.Is(err, apperrors.ErrDataNotFound))

	require.NoError(t, repo.Save(&entities.Machine{Endpoint: "cnc:10000"}))

	require.NoError(t, repo.UpdateStatus("cnc:10000", entities.StatusUnreachable, 3))
	got, _ := repo.GetByEndpoint("cnc:10000")
	assert.Equal(t, entities.StatusUnreachable, got.Status)
	assert.Equal(t, 3, got.ConsecutiveFailures)
	assert.Nil(t, got.LastSeenAt)

	require.NoError(t, repo.UpdateStatus("cnc:10000", entities.StatusPolling, 0))
	got, _ = repo.GetByEndpoint("cnc:10000")
	assert.NotNil(t, got.LastSeenAt)
	assert.Equal(t, 0, got.ConsecutiveFailures)
}
