package refresh

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

const (
	refreshIntervalFlag = "refresh-interval"
)

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.DurationFlag{
			Name:   refreshIntervalFlag,
			Usage:  "minimum interval between background schedule refreshes",
			Value:  15 * time.Minute,
			EnvVar: "REFRESH_INTERVAL",
		},
	)
}

// Task is the refresh body. It must be safe to re-run from scratch, state
// is recomputed from stored facts on every tick.
type Task func(ctx context.Context) error

// Refresher runs the task periodically. Registration is idempotent, ticks
// never overlap and a failing or panicking tick is reported as a soft
// failure instead of crashing the process.
type Refresher struct {
	interval time.Duration
	task     Task

	mu      sync.Mutex
	cron    *cron.Cron
	started bool
	done    chan struct{}
}

func New(c *cli.Context, task Task) *Refresher {
	return &Refresher{
		interval: c.Duration(refreshIntervalFlag),
		task:     task,
		done:     make(chan struct{}),
	}
}

// Start registers the periodic task. Calling it again is a no-op.
func (r *Refresher) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		log.Info("refresh task already registered")
		return nil
	}
	logger := cron.PrintfLogger(log.StandardLogger())
	r.cron = cron.New(cron.WithChain(
		cron.Recover(logger),
		cron.SkipIfStillRunning(logger),
	))
	_, err := r.cron.AddFunc(fmt.Sprintf("@every %s", r.interval), r.tick)
	if err != nil {
		return err
	}
	r.cron.Start()
	r.started = true
	log.WithField("interval", r.interval).Info("registered background refresh task")
	return nil
}

func (r *Refresher) tick() {
	if err := r.task(context.Background()); err != nil {
		log.WithError(err).Error("background refresh failed")
	}
}

// RunOnce executes the task body immediately, the one-shot CLI command and
// tests use it.
func (r *Refresher) RunOnce(ctx context.Context) error {
	return r.task(ctx)
}

// Serve blocks until Close so the refresher can sit alongside the other
// servables.
func (r *Refresher) Serve() error {
	if err := r.Start(); err != nil {
		return err
	}
	<-r.done
	return nil
}

func (r *Refresher) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cron != nil {
		r.cron.Stop()
		r.cron = nil
	}
	if r.started {
		r.started = false
		close(r.done)
	}
}
