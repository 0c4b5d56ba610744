package brother_service

import (
	"errors"
	"os"
	"time"

	brother "github.com/iwtcode/brotherAdapter"
	"github.com/iwtcode/brotherAdapter/brother/protocol"
	"github.com/iwtcode/brotherAdapter/brother/schema"
	"github.com/iwtcode/brotherAdapter/brother/snapshot"
	"github.com/iwtcode/brotherAdapter/internal/config"
	"github.com/iwtcode/brotherAdapter/internal/interfaces"
	"github.com/iwtcode/brotherAdapter/internal/metrics"
	"github.com/iwtcode/brotherAdapter/internal/middleware/logging"
	"github.com/iwtcode/brotherAdapter/mtconnect"
	apperrors "github.com/iwtcode/brotherAdapter/pkg/errors"
)

// NewClient создает клиента станка по конфигурации приложения.
func NewClient(cfg *config.AppConfig, logger *logging.Logger) (*brother.Client, error) {
	unit := schema.ParseUnitSystem(cfg.CNC.Unit)
	if unit == schema.UnitUnknown {
		logger.Warn("Unknown unit system, using metric", "unit", cfg.CNC.Unit)
		unit = schema.UnitMetric
	}

	clientCfg := &brother.Config{
		IP:                 cfg.CNC.IP,
		Port:               uint16(cfg.CNC.Port),
		TimeoutMs:          int32(cfg.CNC.TimeoutMs),
		Unit:               unit,
		ControlVersion:     schema.ParseControlVersion(cfg.CNC.ControlVersion),
		ControlVersionName: cfg.CNC.ControlVersion,
		DataMapPath:        cfg.CNC.DataMapPath,
	}
	requester := protocol.NewClient(clientCfg.Endpoint(), clientCfg.Timeout(), logger.Logrus())
	return brother.NewWithRequester(clientCfg, requester, logger.Logrus())
}

// NewDeviceInfo собирает описание устройства MTConnect.
func NewDeviceInfo(cfg *config.AppConfig, repo interfaces.MachineRepository, logger *logging.Logger) mtconnect.DeviceInfo {
	sender, err := os.Hostname()
	if err != nil || sender == "" {
		sender = "brother-adapter"
	}
	return mtconnect.DeviceInfo{
		Name:         cfg.Device.Name,
		UUID:         ResolveDeviceUUID(cfg, repo, logger),
		Sender:       sender,
		InstanceID:   time.Now().Unix(),
		Manufacturer: cfg.Device.Manufacturer,
		Model:        cfg.Device.Model,
		SerialNumber: cfg.Device.SerialNumber,
	}
}

// ResolveDeviceUUID: DEVICE_UUID, затем UUID, сохраненный для адреса станка, затем UUID по MAC хоста.
func ResolveDeviceUUID(cfg *config.AppConfig, repo interfaces.MachineRepository, logger *logging.Logger) string {
	if cfg.Device.UUID != "" {
		return cfg.Device.UUID
	}
	machine, err := repo.GetByEndpoint(cfg.CNC.Endpoint())
	switch {
	case err == nil && machine.DeviceUUID != "":
		return machine.DeviceUUID
	case err != nil && !errors.Is(err, apperrors.ErrDataNotFound):
		logger.Warn("Failed to read stored device UUID", "endpoint", cfg.CNC.Endpoint(), "error", err)
	}
	return mtconnect.DeviceUUID()
}

// NewBrotherService создает менеджер опроса поверх клиента станка.
func NewBrotherService(
	cfg *config.AppConfig,
	client *brother.Client,
	snap *snapshot.Snapshot,
	repo interfaces.MachineRepository,
	sinks []interfaces.SnapshotSink,
	m *metrics.Metrics,
	info mtconnect.DeviceInfo,
	logger *logging.Logger,
) interfaces.PollingManager {
	return NewPollingManager(client, snap, repo, sinks, m, logger, Options{
		Interval:   cfg.Polling.Interval(),
		SlowEvery:  cfg.Polling.SlowEvery,
		DeviceUUID: info.UUID,
	})
}
