package usecases

import (
	"time"

	"github.com/iwtcode/brotherAdapter/brother/snapshot"
	"github.com/iwtcode/brotherAdapter/internal/domain/models"
	"github.com/iwtcode/brotherAdapter/internal/interfaces"
	"github.com/iwtcode/brotherAdapter/mtconnect"
)

// AgentUsecase отдает снимок станка в виде документов MTConnect.
// Запросы читают копию снимка и не ждут цикла опроса.
type AgentUsecase struct {
	snapshot *snapshot.Snapshot
	poller   interfaces.PollingManager
	info     mtconnect.DeviceInfo
	now      func() time.Time
}

func NewAgentUsecase(snap *snapshot.Snapshot, poller interfaces.PollingManager, info mtconnect.DeviceInfo) *AgentUsecase {
	return &AgentUsecase{
		snapshot: snap,
		poller:   poller,
		info:     info,
		now:      time.Now,
	}
}

func (u *AgentUsecase) Probe() ([]byte, error) {
	return mtconnect.RenderProbe(u.info, u.now())
}

func (u *AgentUsecase) Current() ([]byte, error) {
	return mtconnect.RenderCurrent(u.info, u.snapshot.Read(), u.now())
}

func (u *AgentUsecase) Sample() ([]byte, error) {
	return mtconnect.RenderSample(u.info, u.snapshot.Read(), u.now())
}

func (u *AgentUsecase) Health() models.HealthResponse {
	status := u.poller.Status()
	resp := models.HealthResponse{
		Status:              "ok",
		Endpoint:            status.Endpoint,
		ControlVersion:      status.ControlVersion,
		Fields:              u.snapshot.Len(),
		ConsecutiveFailures: status.ConsecutiveFailures,
	}
	if status.ConsecutiveFailures > 0 {
		resp.Status = "degraded"
	}
	if updated := u.snapshot.UpdatedAt(); !updated.IsZero() {
		resp.LastUpdate = updated.UTC().Format(time.RFC3339)
	}
	return resp
}
