package status

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/nurpe/contract-archive/internal/model"
)

// Store is the subset of the status repository the sampler probes.
type Store interface {
	Ping(ctx context.Context) (time.Duration, error)
	CountRows(ctx context.Context, table model.Table) (int64, error)
}

type Sampler struct {
	store    Store
	recorder *Recorder
	log      zerolog.Logger
	timeout  time.Duration
}

func NewSampler(store Store, recorder *Recorder, log zerolog.Logger) *Sampler {
	timeout := recorder.interval / 2
	if timeout <= 0 {
		timeout = time.Second
	}
	return &Sampler{
		store:    store,
		recorder: recorder,
		log:      log.With().Str("component", "status-sampler").Logger(),
		timeout:  timeout,
	}
}

// Run samples once immediately and then every recorder interval until ctx is
// done.
func (s *Sampler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.recorder.interval)
	defer ticker.Stop()

	s.Sample(ctx)
	for {
		select {
		case <-ctx.Done():
			s.log.Debug().Msg("sampler stopped")
			return
		case <-ticker.C:
			s.Sample(ctx)
		}
	}
}

// Sample runs one probe and records it in the slot of the tick start.
func (s *Sampler) Sample(ctx context.Context) {
	at := s.recorder.Now()
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	probe := Probe{Tables: make(map[model.Table]bool, len(model.Tables))}
	latency, err := s.store.Ping(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("store unreachable")
		s.recorder.RecordProbe(at, probe)
		return
	}
	probe.Connected = true
	probe.Latency = latency

	for _, table := range model.Tables {
		if _, err := s.store.CountRows(ctx, table); err != nil {
			s.log.Warn().Err(err).Str("table", table.String()).Msg("table not operational")
			continue
		}
		probe.Tables[table] = true
	}
	s.recorder.RecordProbe(at, probe)
}
