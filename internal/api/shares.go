package api

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/rickgao/share-dashboard/internal/model"
)

// shareRecord is the wire form of a share. Pointer fields tell an absent or
// null metric apart from a real zero.
type shareRecord struct {
	Name         string   `json:"name"`
	QuotaGB      *float64 `json:"quotaGB"`
	IOPS         *float64 `json:"iops"`
	BandwidthMiB *float64 `json:"bandwidthMiB"`
	LatencyMs    *float64 `json:"latencyMs"`
	Transactions *float64 `json:"transactions"`
}

func (r shareRecord) share() (model.Share, error) {
	fields := []struct {
		key string
		val *float64
	}{
		{"quotaGB", r.QuotaGB},
		{"iops", r.IOPS},
		{"bandwidthMiB", r.BandwidthMiB},
		{"latencyMs", r.LatencyMs},
		{"transactions", r.Transactions},
	}
	for _, f := range fields {
		if f.val == nil {
			return model.Share{}, fmt.Errorf("missing or null %q", f.key)
		}
	}

	return model.Share{
		Name:         r.Name,
		QuotaGB:      *r.QuotaGB,
		IOPS:         *r.IOPS,
		BandwidthMiB: *r.BandwidthMiB,
		LatencyMs:    *r.LatencyMs,
		Transactions: *r.Transactions,
	}, nil
}

// GetShares fetches the current share list in backend order.
func (c *Client) GetShares(ctx context.Context) ([]model.Share, error) {
	var records []shareRecord
	if err := c.get(ctx, PathShares, jsoniter.ArrayValue, &records); err != nil {
		return nil, fmt.Errorf("get shares: %w", err)
	}

	shares := make([]model.Share, 0, len(records))
	for i, rec := range records {
		s, err := rec.share()
		if err != nil {
			return nil, fmt.Errorf("get shares: %w", &ParseError{Path: PathShares, Err: fmt.Errorf("share %d: %w", i, err)})
		}
		shares = append(shares, s)
	}

	if err := model.ValidateShares(shares); err != nil {
		return nil, fmt.Errorf("get shares: %w", &ParseError{Path: PathShares, Err: err})
	}

	return shares, nil
}

// GetAnomalies fetches the anomaly map keyed by share name.
func (c *Client) GetAnomalies(ctx context.Context) (model.AnomalyMap, error) {
	var anomalies model.AnomalyMap
	if err := c.get(ctx, PathAnomalies, jsoniter.ObjectValue, &anomalies); err != nil {
		return nil, fmt.Errorf("get anomalies: %w", err)
	}

	if anomalies == nil {
		anomalies = model.AnomalyMap{}
	}

	return anomalies, nil
}
