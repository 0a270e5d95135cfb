package database

import (
	"context"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"

	"github.com/seuros/ecodash/internal/dashboard"
	"github.com/seuros/ecodash/internal/logging"
)

const dayCheckInterval = time.Minute

// SnapshotSaver persists a store snapshot
type SnapshotSaver interface {
	Save(ctx context.Context, snap dashboard.Snapshot) error
}

// Scheduler runs the periodic store maintenance tasks: snapshot persistence,
// the daily visitor rollover and the active visitor drift.
type Scheduler struct {
	store            *dashboard.Store
	saver            SnapshotSaver
	snapshotInterval time.Duration
	driftInterval    time.Duration
	drift            func() int
	log              *zap.Logger
	stopChan         chan struct{}
	stopOnce         sync.Once
	wg               sync.WaitGroup
}

// NewScheduler creates a scheduler for store. A nil saver disables snapshots
// and a zero drift interval disables the active visitor drift.
func NewScheduler(store *dashboard.Store, saver SnapshotSaver, snapshotInterval, driftInterval time.Duration) *Scheduler {
	faker := gofakeit.New(0)
	return &Scheduler{
		store:            store,
		saver:            saver,
		snapshotInterval: snapshotInterval,
		driftInterval:    driftInterval,
		drift:            func() int { return faker.IntRange(-1, 1) },
		log:              logging.With(zap.String("component", "scheduler")),
		stopChan:         make(chan struct{}),
	}
}

// Start begins the maintenance tasks
func (s *Scheduler) Start() {
	s.log.Info("starting store scheduler",
		zap.Duration("snapshot_interval", s.snapshotInterval),
		zap.Duration("drift_interval", s.driftInterval))

	s.every(dayCheckInterval, s.rollDay)

	if s.saver != nil && s.snapshotInterval > 0 {
		s.every(s.snapshotInterval, s.saveSnapshot)
	}

	if s.driftInterval > 0 {
		s.every(s.driftInterval, s.driftVisitors)
	}
}

// Stop halts all tasks and writes a final snapshot.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
		if s.saver != nil {
			s.saveSnapshot()
		}
	})
}

func (s *Scheduler) every(interval time.Duration, task func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				task()
			case <-s.stopChan:
				return
			}
		}
	}()
}

func (s *Scheduler) saveSnapshot() {
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.saver.Save(ctx, s.store.Snapshot()); err != nil {
		s.log.Warn("failed to save dashboard snapshot", zap.Error(err))
		return
	}

	s.log.Debug("saved dashboard snapshot", zap.Duration("duration", time.Since(start)))
}

func (s *Scheduler) rollDay() {
	if s.store.RollDay() {
		s.log.Info("rolled over daily visitor counter")
	}
}

func (s *Scheduler) driftVisitors() {
	if delta := s.drift(); delta != 0 {
		s.store.DriftActiveVisitors(delta)
	}
}
