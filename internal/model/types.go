package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Backend Types
// -----------------------------------------------------------------------------

// Share is one storage allocation with its latest performance metrics.
type Share struct {
	Name         string  `json:"name"`         // Unique display key
	QuotaGB      float64 `json:"quotaGB"`      // Provisioned quota
	IOPS         float64 `json:"iops"`         // File server IOPS
	BandwidthMiB float64 `json:"bandwidthMiB"` // Throughput (MiB/s)
	LatencyMs    float64 `json:"latencyMs"`    // Success server latency
	Transactions float64 `json:"transactions"` // Transaction count, non-negative
}

// AnomalyMap maps a share name to a human-readable anomaly description.
// A missing key means the share has no anomaly.
type AnomalyMap map[string]string

// Lookup returns the anomaly text for a share. Empty descriptions count as no anomaly.
func (m AnomalyMap) Lookup(name string) (string, bool) {
	desc, ok := m[name]
	if !ok || desc == "" {
		return "", false
	}
	return desc, true
}

// -----------------------------------------------------------------------------
// Poll Types
// -----------------------------------------------------------------------------

// Snapshot is the joint result of one successful poll cycle.
type Snapshot struct {
	CycleID   uuid.UUID
	Shares    []Share
	Anomalies AnomalyMap
	FetchedAt time.Time
}

// Validation errors for backend share lists.
var (
	ErrEmptyName            = errors.New("share name is empty")
	ErrDuplicateName        = errors.New("duplicate share name")
	ErrNegativeTransactions = errors.New("negative transactions count")
)

// ValidateShares checks the invariants the renderer relies on:
// names are non-empty and unique, transactions are non-negative.
func ValidateShares(shares []Share) error {
	seen := make(map[string]struct{}, len(shares))
	for i, s := range shares {
		if s.Name == "" {
			return fmt.Errorf("share %d: %w", i, ErrEmptyName)
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("share %q: %w", s.Name, ErrDuplicateName)
		}
		seen[s.Name] = struct{}{}
		if s.Transactions < 0 {
			return fmt.Errorf("share %q: %w", s.Name, ErrNegativeTransactions)
		}
	}
	return nil
}
