package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// PendingExpirer closes stale unpaid Pending reservations.
type PendingExpirer interface {
	ExpireStalePending(ctx context.Context) (int, error)
}

const expiryRunTimeout = 2 * time.Minute

// RunPendingExpiry performs a single sweep. Exported for the scheduler and tests.
func RunPendingExpiry(ctx context.Context, expirer PendingExpirer, log *logrus.Logger) {
	ctx, cancel := context.WithTimeout(ctx, expiryRunTimeout)
	defer cancel()

	start := time.Now()
	n, err := expirer.ExpireStalePending(ctx)
	entry := log.WithFields(logrus.Fields{"job": "pending_expiry", "elapsed": time.Since(start).String()})
	if err != nil {
		entry.WithError(err).Error("pending expiry sweep failed")
		return
	}
	entry.WithField("expired", n).Debug("pending expiry sweep finished")
}

// InitCronJobs registers the expiry sweep on schedule and starts c.
func InitCronJobs(c *cron.Cron, schedule string, expirer PendingExpirer, log *logrus.Logger) error {
	_, err := c.AddFunc(schedule, func() {
		RunPendingExpiry(context.Background(), expirer, log)
	})
	if err != nil {
		return err
	}

	c.Start()
	log.WithField("schedule", schedule).Info("cron jobs initialized")
	return nil
}

// NewCron skips a run while the previous one is still going.
func NewCron(log *logrus.Logger) *cron.Cron {
	return cron.New(cron.WithChain(
		cron.Recover(cron.PrintfLogger(log)),
		cron.SkipIfStillRunning(cron.PrintfLogger(log)),
	))
}
