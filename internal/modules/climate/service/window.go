package service

import (
	"context"
	"fmt"
	"time"

	"climate-server/internal/modules/climate/types"
)

// latestDateFunc reports the most recent measurement date in the dataset.
type latestDateFunc func(ctx context.Context) (time.Time, error)

// WindowResolver computes the default analysis window: End is either a
// pinned date or the latest measurement date, Start is End minus Days.
type WindowResolver struct {
	fixedEnd time.Time
	days     int
	latest   latestDateFunc
}

func NewWindowResolver(fixedEnd time.Time, days int, latest latestDateFunc) *WindowResolver {
	return &WindowResolver{fixedEnd: fixedEnd, days: days, latest: latest}
}

func (r *WindowResolver) Resolve(ctx context.Context) (types.Window, error) {
	end := r.fixedEnd
	if end.IsZero() {
		latest, err := r.latest(ctx)
		if err != nil {
			return types.Window{}, fmt.Errorf("resolve window end: %w", err)
		}
		end = latest
	}
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return types.Window{Start: end.AddDate(0, 0, -r.days), End: end}, nil
}
