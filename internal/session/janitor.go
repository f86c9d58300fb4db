package session

import (
	"context"
	"sync"
	"time"

	"github.com/vytor/flashstudy/internal/logger"
)

// Janitor periodically closes sessions older than the token lifetime, whose
// tokens can no longer authenticate.
type Janitor struct {
	manager  *Manager
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time

	wg     sync.WaitGroup
	cancel context.CancelFunc
	log    *logger.Logger
}

func NewJanitor(manager *Manager, ttl, interval time.Duration) *Janitor {
	if interval <= 0 {
		interval = time.Minute
	}
	log := logger.Default().WithPrefix("session-janitor")
	log.Debug("creating session janitor: ttl=%s, interval=%s", ttl, interval)
	return &Janitor{
		manager:  manager,
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
		log:      log,
	}
}

func (j *Janitor) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.log.Info("starting session janitor")

	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				j.log.Debug("janitor shutting down (context cancelled)")
				return
			case <-ticker.C:
				j.Sweep()
			}
		}
	}()
}

// Sweep closes expired sessions once.
func (j *Janitor) Sweep() int {
	n := j.manager.Expire(j.now().Add(-j.ttl))
	if n > 0 {
		j.log.Info("closed %d expired sessions", n)
	}
	return n
}

func (j *Janitor) Stop() {
	j.log.Info("stopping session janitor")
	if j.cancel != nil {
		j.cancel()
	}
	j.wg.Wait()
	j.log.Info("session janitor stopped")
}
