package main

import (
	"strings"
	"testing"

	"satang/internal/api"
	"satang/internal/core"
)

func TestMonthOptionLines(t *testing.T) {
	transactions := []core.Transaction{
		{ID: 1, Date: "2025-08-01", Category: "salary"},
		{ID: 2, Date: "2025-07-28", Category: "food"},
		{ID: 3, Date: "2025-08-03", Category: "food"},
		{ID: 4, Date: "not-a-date"},
	}

	lines := monthOptionLines(transactions)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %v", len(lines), lines)
	}
	if !strings.Contains(lines[0], "All months") {
		t.Errorf("first line = %q, want the all-pass option", lines[0])
	}
	if !strings.Contains(lines[1], "2025-08") || !strings.Contains(lines[1], "August 2025") {
		t.Errorf("second line = %q, want newest month first", lines[1])
	}
	if !strings.Contains(lines[2], "2025-07") {
		t.Errorf("third line = %q", lines[2])
	}
}

func TestFailureError(t *testing.T) {
	tests := []struct {
		name     string
		kind     api.Kind
		wantHint string
	}{
		{"generic retry", api.KindServerError, "Run the command again to retry."},
		{"auth failure advertises sign-out", api.KindAuthFailed, "satang logout"},
		{"missing token points at login", api.KindNoToken, "satang login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := failureError("Something failed.", tt.kind)
			if !strings.Contains(err.Error(), tt.wantHint) {
				t.Errorf("error %q missing %q", err, tt.wantHint)
			}
		})
	}
}
