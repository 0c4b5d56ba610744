package brother_service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/iwtcode/brotherAdapter/brother/decoder"
	"github.com/iwtcode/brotherAdapter/brother/schema"
	"github.com/iwtcode/brotherAdapter/brother/snapshot"
	"github.com/iwtcode/brotherAdapter/internal/domain/entities"
	"github.com/iwtcode/brotherAdapter/internal/domain/models"
	"github.com/iwtcode/brotherAdapter/internal/interfaces"
	"github.com/iwtcode/brotherAdapter/internal/metrics"
	"github.com/iwtcode/brotherAdapter/internal/middleware/logging"
	apperrors "github.com/iwtcode/brotherAdapter/pkg/errors"

	"golang.org/x/sync/errgroup"
)

const publishTimeout = 5 * time.Second

// Reader - то, что менеджеру опроса нужно от клиента станка.
type Reader interface {
	Endpoint() string
	Unit() schema.UnitSystem
	DetectVersion(ctx context.Context) (schema.ControlVersion, error)
	FastDecoders() []decoder.Decoder
	SlowDecoders() []decoder.Decoder
	Read(ctx context.Context, d decoder.Decoder, tools decoder.FieldReader) (map[string]string, error)
}

type Options struct {
	Interval   time.Duration
	SlowEvery  int
	DeviceUUID string
}

type PollingManager struct {
	reader   Reader
	snapshot *snapshot.Snapshot
	dbRepo   interfaces.MachineRepository
	sinks    []interfaces.SnapshotSink
	metrics  *metrics.Metrics
	logger   *logging.Logger
	opts     Options

	mu     sync.RWMutex
	status models.PollStatus
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPollingManager(
	reader Reader,
	snap *snapshot.Snapshot,
	dbRepo interfaces.MachineRepository,
	sinks []interfaces.SnapshotSink,
	m *metrics.Metrics,
	logger *logging.Logger,
	opts Options,
) *PollingManager {
	if opts.Interval <= 0 {
		opts.Interval = 2 * time.Second
	}
	if opts.SlowEvery <= 0 {
		opts.SlowEvery = 1
	}
	return &PollingManager{
		reader:   reader,
		snapshot: snap,
		dbRepo:   dbRepo,
		sinks:    sinks,
		metrics:  m,
		logger:   logger.WithPrefix("POLLER"),
		opts:     opts,
		status:   models.PollStatus{Endpoint: reader.Endpoint()},
	}
}

// Start регистрирует станок и запускает фоновый цикл опроса.
func (pm *PollingManager) Start(_ context.Context) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if pm.cancel != nil {
		return fmt.Errorf("опрос '%s' уже запущен", pm.reader.Endpoint())
	}

	// Версия, найденная прошлым запуском, остается в реестре до нового определения.
	if err := pm.saveMachine(entities.StatusDetecting, ""); err != nil {
		pm.logger.Error("Failed to register machine", "endpoint", pm.reader.Endpoint(), "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	pm.cancel = cancel
	pm.done = make(chan struct{})
	go pm.run(ctx, pm.done)
	return nil
}

// Stop останавливает цикл и ждет его завершения или отмены ctx.
func (pm *PollingManager) Stop(ctx context.Context) error {
	pm.mu.Lock()
	cancel, done := pm.cancel, pm.done
	pm.cancel, pm.done = nil, nil
	pm.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		pm.logger.Info("Polling stopped", "endpoint", pm.reader.Endpoint())
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (pm *PollingManager) Status() models.PollStatus {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.status
}

func (pm *PollingManager) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	pm.logger.Info("Starting polling goroutine", "endpoint", pm.reader.Endpoint(), "interval", pm.opts.Interval, "slow_every", pm.opts.SlowEvery)

	for {
		if err := pm.Detect(ctx); err == nil {
			break
		}
		if !pm.sleep(ctx) {
			return
		}
	}

	schedule := newSlowSchedule(pm.opts.SlowEvery)
	for {
		err := pm.RunCycle(ctx, schedule.next())
		schedule.done(err)
		if !pm.sleep(ctx) {
			return
		}
	}
}

// slowSchedule решает, читать ли в цикле медленные семейства. Первый цикл полный,
// дальше каждый every-й. Первый цикл после сбоя связи всегда полный.
type slowSchedule struct {
	every   int
	fast    int
	pending bool
}

func newSlowSchedule(every int) *slowSchedule {
	if every <= 0 {
		every = 1
	}
	return &slowSchedule{every: every, pending: true}
}

func (s *slowSchedule) next() bool {
	if s.pending || s.fast >= s.every-1 {
		s.pending = false
		s.fast = 0
		return true
	}
	s.fast++
	return false
}

func (s *slowSchedule) done(err error) {
	if apperrors.IsTransient(err) {
		s.pending = true
	}
}

func (pm *PollingManager) sleep(ctx context.Context) bool {
	timer := time.NewTimer(pm.opts.Interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// Detect определяет поколение ЧПУ. Выполняется один раз, повторяется только при сбое связи.
func (pm *PollingManager) Detect(ctx context.Context) error {
	version, err := pm.reader.DetectVersion(ctx)
	if err != nil {
		pm.transportFailure(err)
		return err
	}

	pm.mu.Lock()
	pm.status.ControlVersion = version.String()
	pm.mu.Unlock()

	if err := pm.saveMachine(entities.StatusPolling, version.String()); err != nil {
		pm.logger.Error("Failed to store detected version", "endpoint", pm.reader.Endpoint(), "error", err)
	}
	return nil
}

// saveMachine обновляет запись станка, сохраняя поля, которые этот вызов не знает.
// Пустой controlVersion оставляет сохраненное значение.
func (pm *PollingManager) saveMachine(status, controlVersion string) error {
	machine, err := pm.dbRepo.GetByEndpoint(pm.reader.Endpoint())
	if err != nil {
		if !errors.Is(err, apperrors.ErrDataNotFound) {
			return err
		}
		machine = &entities.Machine{Endpoint: pm.reader.Endpoint()}
	}

	if pm.opts.DeviceUUID != "" {
		machine.DeviceUUID = pm.opts.DeviceUUID
	}
	if controlVersion != "" {
		machine.ControlVersion = controlVersion
	}
	machine.UnitSystem = pm.reader.Unit().String()
	machine.Status = status
	return pm.dbRepo.Save(machine)
}

// RunCycle выполняет один цикл опроса. Сбой связи прерывает цикл; отсутствующий или
// испорченный файл пропускается, остальные семейства обновляются как обычно.
func (pm *PollingManager) RunCycle(ctx context.Context, slow bool) error {
	start := time.Now()

	decoders := pm.reader.FastDecoders()
	if slow {
		decoders = append(decoders, pm.reader.SlowDecoders()...)
	}

	merged := 0
	for _, d := range decoders {
		fields, err := pm.reader.Read(ctx, d, pm.snapshot)
		if err != nil {
			if apperrors.IsTransient(err) {
				pm.transportFailure(err)
				return err
			}
			pm.decoderFailure(d.Family(), err)
			continue
		}
		merged += pm.snapshot.Merge(fields)
	}

	pm.cycleSucceeded()
	pm.metrics.CycleCompleted(time.Since(start).Seconds())
	pm.metrics.SnapshotSize(pm.snapshot.Len())
	pm.logger.Debug("Poll cycle completed", "slow", slow, "merged", merged, "duration", time.Since(start))

	if merged > 0 {
		pm.publish(ctx)
	}
	return nil
}

func (pm *PollingManager) decoderFailure(family string, err error) {
	if errors.Is(err, apperrors.ErrNoData) {
		pm.metrics.DecoderFailure(family, "no_data")
		pm.logger.Debug("File not available", "family", family, "error", err)
		return
	}
	pm.metrics.DecoderFailure(family, "malformed")
	pm.logger.Warn("Failed to decode file", "family", family, "error", err)
}

func (pm *PollingManager) transportFailure(err error) {
	pm.mu.Lock()
	pm.status.ConsecutiveFailures++
	failures := pm.status.ConsecutiveFailures
	pm.mu.Unlock()

	pm.metrics.TransportFailure(failures)
	pm.logger.Error("Transport failure, retrying", "endpoint", pm.reader.Endpoint(), "consecutive_failures", failures, "error", err)

	if err := pm.dbRepo.UpdateStatus(pm.reader.Endpoint(), entities.StatusUnreachable, failures); err != nil {
		pm.logger.Debug("Failed to update machine status", "error", err)
	}
}

func (pm *PollingManager) cycleSucceeded() {
	pm.mu.Lock()
	previous := pm.status.ConsecutiveFailures
	pm.status.ConsecutiveFailures = 0
	pm.status.Cycles++
	pm.status.LastSuccess = time.Now()
	pm.mu.Unlock()

	if previous > 0 {
		pm.logger.Info("Connection restored", "endpoint", pm.reader.Endpoint(), "failed_cycles", previous)
	}
	pm.metrics.ResetFailures()

	if err := pm.dbRepo.UpdateStatus(pm.reader.Endpoint(), entities.StatusPolling, 0); err != nil {
		pm.logger.Debug("Failed to update machine status", "error", err)
	}
}

// publish отправляет снимок во все подключенные системы параллельно.
// Ошибка одной системы не мешает остальным.
func (pm *PollingManager) publish(ctx context.Context) {
	if len(pm.sinks) == 0 {
		return
	}

	msg := models.SnapshotMessage{
		MachineID:      pm.opts.DeviceUUID,
		Endpoint:       pm.reader.Endpoint(),
		Timestamp:      time.Now().UTC(),
		ControlVersion: pm.Status().ControlVersion,
		UnitSystem:     pm.reader.Unit().String(),
		Fields:         pm.snapshot.Read(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		pm.logger.Error("Failed to serialize snapshot", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	var g errgroup.Group
	for _, sink := range pm.sinks {
		sink := sink
		g.Go(func() error {
			if err := sink.Publish(ctx, []byte(msg.MachineID), payload); err != nil {
				pm.metrics.SinkFailure(sink.Name())
				return fmt.Errorf("%s: %w", sink.Name(), err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		pm.logger.Error("Failed to publish snapshot", "error", err)
	}
}
