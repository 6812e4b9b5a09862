package ingest

import (
	"context"
	"time"

	"github.com/edgarintel/pipeline/internal/alertstore"
	"github.com/edgarintel/pipeline/internal/scheduler"
	"github.com/edgarintel/pipeline/internal/signal"
)

// ClusterAdapter implements scheduler.ClusterDetector over a
// signal.Engine, translating ClusterResult into the scheduler's smaller
// ClusterHit shape.
type ClusterAdapter struct {
	engine *signal.Engine
}

// NewClusterAdapter returns a ClusterAdapter backed by engine.
func NewClusterAdapter(engine *signal.Engine) *ClusterAdapter {
	return &ClusterAdapter{engine: engine}
}

// DetectClusters implements scheduler.ClusterDetector.
func (a *ClusterAdapter) DetectClusters(ctx context.Context, days int) ([]scheduler.ClusterHit, error) {
	results, err := a.engine.DetectClusters(ctx, days)
	if err != nil {
		return nil, err
	}
	out := make([]scheduler.ClusterHit, 0, len(results))
	for _, r := range results {
		out = append(out, scheduler.ClusterHit{CompanyCIK: r.CompanyCIK, Level: string(r.Level)})
	}
	return out, nil
}

// AlertAdapter implements scheduler.AlertCreator over an
// alertstore.Store, dropping the created Alert's id the scanner doesn't
// need.
type AlertAdapter struct {
	store *alertstore.Store
}

// NewAlertAdapter returns an AlertAdapter backed by store.
func NewAlertAdapter(store *alertstore.Store) *AlertAdapter {
	return &AlertAdapter{store: store}
}

// CreateAlert implements scheduler.AlertCreator.
func (a *AlertAdapter) CreateAlert(ctx context.Context, alertType, cik, companyName, ticker, title, description, severity string, day time.Time) error {
	_, err := a.store.CreateAlert(ctx, alertType, cik, companyName, ticker, title, description, severity, day)
	return err
}
