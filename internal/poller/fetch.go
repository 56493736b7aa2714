package poller

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/share-dashboard/internal/api"
	"github.com/rickgao/share-dashboard/internal/metrics"
	"github.com/rickgao/share-dashboard/internal/model"
)

// Source provides the two backend resources a cycle needs.
type Source interface {
	GetShares(ctx context.Context) ([]model.Share, error)
	GetAnomalies(ctx context.Context) (model.AnomalyMap, error)
}

// FetchSnapshot reads shares and anomalies concurrently. The first failure
// cancels the other read and no partial snapshot is returned.
func FetchSnapshot(ctx context.Context, src Source) (model.Snapshot, error) {
	var (
		shares    []model.Share
		anomalies model.AnomalyMap
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s, err := src.GetShares(gctx)
		if err != nil {
			countFetchError(api.PathShares, err)
			return err
		}
		shares = s
		return nil
	})

	g.Go(func() error {
		a, err := src.GetAnomalies(gctx)
		if err != nil {
			countFetchError(api.PathAnomalies, err)
			return err
		}
		anomalies = a
		return nil
	})

	if err := g.Wait(); err != nil {
		return model.Snapshot{}, err
	}

	return model.Snapshot{
		Shares:    shares,
		Anomalies: anomalies,
		FetchedAt: time.Now(),
	}, nil
}

// countFetchError skips reads aborted because their sibling already failed.
func countFetchError(resource string, err error) {
	kind := api.Kind(err)
	if kind == api.KindCanceled {
		return
	}
	metrics.IncFetchErrors(resource, kind)
}
