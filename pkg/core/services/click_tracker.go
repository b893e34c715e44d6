package services

import (
	"context"
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
)

var clicksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "linkbio_link_clicks_total",
		Help: "Link activations by tracking outcome",
	},
	[]string{"outcome"},
)

// ClickTracker counts visitor activations of links. The counter increment and
// the click event are written in one store transaction.
type ClickTracker struct {
	repo ports.LinkRepository
	wg   sync.WaitGroup
}

func NewClickTracker(repo ports.LinkRepository) *ClickTracker {
	return &ClickTracker{repo: repo}
}

// Track records one activation and returns the new counter value. Failures
// are logged and reported through ok; they are never returned to the caller.
func (t *ClickTracker) Track(ctx context.Context, linkID string, visit domain.Visit) (int64, bool) {
	click := &domain.ClickEvent{
		LinkID:    linkID,
		UserAgent: visit.UserAgent,
		Referrer:  visit.Referrer,
	}

	clicks, err := t.repo.RecordClick(ctx, click)
	switch {
	case err == nil:
		clicksTotal.WithLabelValues("recorded").Inc()
		return clicks, true
	case errors.Is(err, domain.ErrNotFound):
		clicksTotal.WithLabelValues("unknown_link").Inc()
		log.Warn().Str("link_id", linkID).Msg("click on unknown or inactive link ignored")
	default:
		clicksTotal.WithLabelValues("failed").Inc()
		log.Error().Err(err).Str("link_id", linkID).Msg("failed to track click")
	}
	return 0, false
}

// TrackAsync records the activation in the background. The write is detached
// from ctx's cancellation, so it completes even if the visitor leaves.
func (t *ClickTracker) TrackAsync(ctx context.Context, linkID string, visit domain.Visit) {
	ctx = context.WithoutCancel(ctx)

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.Track(ctx, linkID, visit)
	}()
}

// Wait blocks until every background write has finished.
func (t *ClickTracker) Wait() {
	t.wg.Wait()
}
