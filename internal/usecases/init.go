package usecases

import (
	"github.com/iwtcode/brotherAdapter/brother/snapshot"
	"github.com/iwtcode/brotherAdapter/internal/interfaces"
	"github.com/iwtcode/brotherAdapter/mtconnect"
)

// NewUsecases - конструктор для UseCases
func NewUsecases(
	snap *snapshot.Snapshot,
	poller interfaces.PollingManager,
	info mtconnect.DeviceInfo,
) interfaces.Usecases {
	return NewAgentUsecase(snap, poller, info)
}
