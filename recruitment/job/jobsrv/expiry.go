package jobsrv

import (
	"context"
	"fmt"

	"github.com/Abraxas-365/vieclam/pkg/logx"
	"github.com/robfig/cron/v3"
)

// Expirer is the part of JobService the sweeper drives
type Expirer interface {
	ExpireDueJobs(ctx context.Context) (int, error)
}

// ExpirySweeper periodically moves published jobs past expires_at to expired
type ExpirySweeper struct {
	cron    *cron.Cron
	expirer Expirer
	spec    string
}

// NewExpirySweeper creates a sweeper firing on a cron spec such as "@every 15m"
func NewExpirySweeper(expirer Expirer, spec string) *ExpirySweeper {
	return &ExpirySweeper{
		cron:    cron.New(),
		expirer: expirer,
		spec:    spec,
	}
}

// Start registers the sweep and starts the scheduler
func (s *ExpirySweeper) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.Sweep(ctx) }); err != nil {
		return fmt.Errorf("schedule job expiry %q: %w", s.spec, err)
	}
	s.cron.Start()
	logx.Infof("Job expiry sweeper started (%s)", s.spec)
	return nil
}

// Stop waits for a running sweep to finish
func (s *ExpirySweeper) Stop() {
	<-s.cron.Stop().Done()
	logx.Info("Job expiry sweeper stopped")
}

// Sweep runs one expiry pass
func (s *ExpirySweeper) Sweep(ctx context.Context) {
	if _, err := s.expirer.ExpireDueJobs(ctx); err != nil {
		logx.Errorf("job expiry sweep failed: %v", err)
	}
}
