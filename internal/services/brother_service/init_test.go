package brother_service

import (
	"testing"

	"github.com/iwtcode/brotherAdapter/internal/adapters/repositories/memory"
	"github.com/iwtcode/brotherAdapter/internal/config"
	"github.com/iwtcode/brotherAdapter/internal/domain/entities"
	"github.com/iwtcode/brotherAdapter/internal/middleware/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoredUUIDFoundForIPv6Endpoint(t *testing.T) {
	cfg := &config.AppConfig{CNC: config.CNCConfig{IP: "::1", Port: 10000, TimeoutMs: 100, Unit: "metric"}}
	logger := logging.NewNop()

	client, err := NewClient(cfg, logger)
	require.NoError(t, err)
	defer client.Close()
	assert.Equal(t, "[::1]:10000", client.Endpoint())
	assert.Equal(t, cfg.CNC.Endpoint(), client.Endpoint())

	// Поллер сохраняет станок под адресом клиента, UUID ищется по адресу из конфигурации.
	repo := memory.NewMachineRepository()
	require.NoError(t, repo.Save(&entities.Machine{Endpoint: client.Endpoint(), DeviceUUID: "stored-uuid"}))
	assert.Equal(t, "stored-uuid", ResolveDeviceUUID(cfg, repo, logger))
}

func TestDeviceUUIDOverrideWins(t *testing.T) {
	cfg := &config.AppConfig{
		CNC:    config.CNCConfig{IP: "10.0.0.1", Port: 10000},
		Device: config.DeviceConfig{UUID: "from-env"},
	}
	repo := memory.NewMachineRepository()
	require.NoError(t, repo.Save(&entities.Machine{Endpoint: cfg.CNC.Endpoint(), DeviceUUID: "stored-uuid"}))

	assert.Equal(t, "from-env", ResolveDeviceUUID(cfg, repo, logging.NewNop()))
}
