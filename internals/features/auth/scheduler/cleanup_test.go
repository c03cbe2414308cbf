package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authHelper "schooladmin_backend/internals/helpers/auth"
)

type countingReaper struct{ calls int }

func (r *countingReaper) Reap() int { r.calls++; return 0 }

func TestStartHousekeepingRegistersJobs(t *testing.T) {
	bl := authHelper.NewMemoryBlacklist("k")
	require.NoError(t, bl.Add(context.Background(), "old", time.Now().Add(-time.Hour)))

	c, err := StartHousekeeping(bl, &countingReaper{})
	require.NoError(t, err)
	defer c.Stop()

	assert.Len(t, c.Entries(), 2)
	// the first purge runs at start
	n, err := bl.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStartHousekeepingWithoutBlacklist(t *testing.T) {
	c, err := StartHousekeeping(nil, &countingReaper{})
	require.NoError(t, err)
	defer c.Stop()
	assert.Len(t, c.Entries(), 1)
}
