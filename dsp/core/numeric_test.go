package core

import "testing"

func TestDBToLinear(t *testing.T) {
	tests := []struct {
		db   float64
		want float64
	}{
		{db: 0, want: 1},
		{db: 20, want: 10},
		{db: -20, want: 0.1},
	}

	for _, tt := range tests {
		got := DBToLinear(tt.db)
		if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("DBToLinear(%v) = %v, want %v", tt.db, got, tt.want)
		}
	}
}
