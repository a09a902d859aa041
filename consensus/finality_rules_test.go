package consensus

import (
	"testing"
)

func TestIsSuperMajority(t *testing.T) {
	tests := []struct {
		name        string
		vote, total uint64
		want        bool
	}{
		{"zero total", 0, 0, false},
		{"exactly 2/3", 200, 300, true},
		{"above 2/3", 300, 400, true},
		{"below 2/3", 100, 300, false},
		{"unanimous", 100, 100, true},
		{"barely below", 199, 300, false},
		{"one above", 201, 300, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isSuperMajority(tt.vote, tt.total)
			if got != tt.want {
				t.Errorf("isSuperMajority(%d, %d) = %v, want %v", tt.vote, tt.total, got, tt.want)
			}
		})
	}
}
