package maintenance

import (
	"context"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	iauth "github.com/charlesng35/weddingrsvp/internal/auth"
	"github.com/charlesng35/weddingrsvp/internal/monitoring"
	"github.com/charlesng35/weddingrsvp/pkg/logger"
)

const (
	JobSessions    = "sessions"
	JobResetTokens = "reset_tokens"
	JobCache       = "cache"
)

// ExpiredPurger removes expired cache entries. The database cache implements it;
// Redis expires keys itself.
type ExpiredPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Cleaner purges expired sessions, stale password reset tokens and expired
// database cache rows. It runs once at start-up and once during shutdown.
type Cleaner struct {
	sessions *iauth.SessionService
	identity *iauth.IdentityService
	cache    ExpiredPurger
	log      *zap.Logger
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCachePurger enables the cache purge job.
func WithCachePurger(p ExpiredPurger) Option {
	return func(cleaner *Cleaner) {
		cleaner.cache = p
	}
}

// NewCleaner constructs a Cleaner. Any nil dependency skips the matching job.
func NewCleaner(sessions *iauth.SessionService, identity *iauth.IdentityService, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		sessions: sessions,
		identity: identity,
		log:      logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	return cleaner
}

type job struct {
	name string
	run  func(ctx context.Context) (int64, error)
}

func (c *Cleaner) jobs() []job {
	var jobs []job
	if c.sessions != nil {
		jobs = append(jobs, job{name: JobSessions, run: c.sessions.CleanupExpired})
	}
	if c.identity != nil {
		jobs = append(jobs, job{name: JobResetTokens, run: c.identity.CleanupResetTokens})
	}
	if c.cache != nil {
		jobs = append(jobs, job{name: JobCache, run: c.cache.PurgeExpired})
	}
	return jobs
}

// RunOnce executes every configured job sequentially. A failing job does not
// stop the others; all failures are returned together.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error
	for _, j := range c.jobs() {
		errs = multierr.Append(errs, c.execute(ctx, j))
	}
	return errs
}

func (c *Cleaner) execute(ctx context.Context, j job) error {
	start := time.Now()
	removed, err := j.run(ctx)
	monitoring.RecordMaintenanceRun(j.name, err, time.Since(start))
	if err != nil {
		c.log.Warn("maintenance job failed", zap.String("job", j.name), zap.Error(err))
		return err
	}
	if removed > 0 {
		c.log.Info("maintenance job removed records", zap.String("job", j.name), zap.Int64("removed", removed))
	}
	return nil
}
