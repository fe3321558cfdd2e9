package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExpirer struct {
	calls   int32
	expired int
	err     error
}

func (f *fakeExpirer) ExpireStalePending(ctx context.Context) (int, error) {
	atomic.AddInt32(&f.calls, 1)
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("sweep ran without a deadline")
	}
	return f.expired, f.err
}

func TestRunPendingExpiry(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	exp := &fakeExpirer{expired: 3}
	RunPendingExpiry(context.Background(), exp, log)

	assert.EqualValues(t, 1, exp.calls)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.DebugLevel, entry.Level)
	assert.Equal(t, 3, entry.Data["expired"])
	assert.Equal(t, "pending_expiry", entry.Data["job"])
}

func TestRunPendingExpiryLogsFailure(t *testing.T) {
	log, hook := test.NewNullLogger()

	RunPendingExpiry(context.Background(), &fakeExpirer{err: errors.New("db down")}, log)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "pending expiry sweep failed", entry.Message)
}

func TestInitCronJobs(t *testing.T) {
	log, hook := test.NewNullLogger()

	c := NewCron(log)
	err := InitCronJobs(c, "not a schedule", &fakeExpirer{}, log)
	assert.Error(t, err)

	c = NewCron(log)
	require.NoError(t, InitCronJobs(c, "@every 1h", &fakeExpirer{}, log))
	defer c.Stop()

	assert.Len(t, c.Entries(), 1)
	assert.Equal(t, "cron jobs initialized", hook.LastEntry().Message)
}
