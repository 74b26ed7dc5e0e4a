package main

import (
	"context"
	"fmt"
	"time"
)

type databaseDownloader interface {
	Download(context.Context, ...string) error
}

type updateLogger interface {
	UpdateInfo(edition string)
	UpdateError(edition string, err error)
}

// updater refreshes databases once or, if every is set, periodically
// until the context is closed.
type updater struct {
	downloader databaseDownloader
	logger     updateLogger
	editions   []string
	every      time.Duration
}

func (u *updater) Run(ctx context.Context) error {
	if u.every == 0 {
		return u.update(ctx)
	}

	ticker := time.NewTicker(u.every)
	defer ticker.Stop()

	u.update(ctx) // nolint: errcheck

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			u.update(ctx) // nolint: errcheck
		}
	}
}

func (u *updater) update(ctx context.Context) error {
	var lastErr error

	for _, v := range u.editions {
		if err := u.downloader.Download(ctx, v); err != nil {
			u.logger.UpdateError(v, err)
			lastErr = fmt.Errorf("cannot update %s: %w", v, err)

			continue
		}

		u.logger.UpdateInfo(v)
	}

	return lastErr
}
