package pagination

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   Params
		want Params
	}{
		{in: Params{}, want: Params{Limit: DefaultLimit}},
		{in: Params{Limit: 500, Offset: -4}, want: Params{Limit: MaxLimit}},
		{in: Params{Limit: 10, Offset: 30}, want: Params{Limit: 10, Offset: 30}},
	}
	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.want {
			t.Fatalf("Normalize(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}
