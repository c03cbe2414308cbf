package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	authHelper "schooladmin_backend/internals/helpers/auth"
	"schooladmin_backend/internals/listing/screen"
)

// Reaper is the part of the screen registry the housekeeping job needs.
type Reaper interface {
	Reap() int
}

var _ Reaper = (*screen.Registry)(nil)

func purgeBlacklist(bl authHelper.Blacklist) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	n, err := bl.PurgeExpired(ctx)
	if err != nil {
		log.Printf("[CLEANUP ERROR] token_blacklist purge: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[CLEANUP] %d expired tokens removed", n)
	}
}

// StartHousekeeping closes idle operator screens every minute and purges
// expired blacklist entries daily. Stop the returned cron on shutdown.
func StartHousekeeping(bl authHelper.Blacklist, screens Reaper) (*cron.Cron, error) {
	c := cron.New()
	if screens != nil {
		if _, err := c.AddFunc("@every 1m", func() { screens.Reap() }); err != nil {
			return nil, err
		}
	}
	if bl != nil {
		if _, err := c.AddFunc("@daily", func() { purgeBlacklist(bl) }); err != nil {
			return nil, err
		}
		purgeBlacklist(bl)
	}
	c.Start()
	log.Println("[INFO] housekeeping scheduler started")
	return c, nil
}
