package model

import (
	"errors"
	"testing"
)

func TestAnomalyMapLookup(t *testing.T) {
	m := AnomalyMap{
		"finance": "Quota near limit",
		"blank":   "",
	}

	tests := []struct {
		name     string
		share    string
		wantDesc string
		wantOK   bool
	}{
		{"present", "finance", "Quota near limit", true},
		{"absent", "hr", "", false},
		{"empty description", "blank", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, ok := m.Lookup(tt.share)
			if desc != tt.wantDesc || ok != tt.wantOK {
				t.Errorf("Lookup(%q) = (%q, %v), want (%q, %v)", tt.share, desc, ok, tt.wantDesc, tt.wantOK)
			}
		})
	}

	t.Run("nil map", func(t *testing.T) {
		var empty AnomalyMap
		if _, ok := empty.Lookup("finance"); ok {
			t.Error("nil map should report no anomaly")
		}
	})
}

func TestValidateShares(t *testing.T) {
	tests := []struct {
		name    string
		shares  []Share
		wantErr error
	}{
		{
			name:   "empty list",
			shares: nil,
		},
		{
			name: "valid",
			shares: []Share{
				{Name: "finance", QuotaGB: 500, Transactions: 981234},
				{Name: "hr", QuotaGB: 100},
			},
		},
		{
			name:    "empty name",
			shares:  []Share{{Name: ""}},
			wantErr: ErrEmptyName,
		},
		{
			name:    "duplicate name",
			shares:  []Share{{Name: "finance"}, {Name: "finance"}},
			wantErr: ErrDuplicateName,
		},
		{
			name:    "negative transactions",
			shares:  []Share{{Name: "finance", Transactions: -1}},
			wantErr: ErrNegativeTransactions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateShares(tt.shares)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateShares() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateShares() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
