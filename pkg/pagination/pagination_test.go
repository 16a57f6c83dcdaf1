package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero uses default", 0, DefaultLimit},
		{"negative uses default", -5, DefaultLimit},
		{"in range passes through", 42, 42},
		{"above max clamps", 500, MaxLimit},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeLimit(tc.limit); got != tc.want {
				t.Fatalf("NormalizeLimit(%d) = %d, want %d", tc.limit, got, tc.want)
			}
		})
	}
}

func TestNormalizePage(t *testing.T) {
	if got := NormalizePage(0); got != 1 {
		t.Fatalf("NormalizePage(0) = %d, want 1", got)
	}
	if got := NormalizePage(-3); got != 1 {
		t.Fatalf("NormalizePage(-3) = %d, want 1", got)
	}
	if got := NormalizePage(7); got != 7 {
		t.Fatalf("NormalizePage(7) = %d, want 7", got)
	}
}

func TestOffset(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   int
	}{
		{"defaults give zero offset", Params{}, 0},
		{"first page gives zero offset", Params{Limit: 20, Page: 1}, 0},
		{"third page of tens", Params{Limit: 10, Page: 3}, 20},
		{"negative page clamps to first", Params{Limit: 10, Page: -2}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.params.Offset(); got != tc.want {
				t.Fatalf("Offset() = %d, want %d", got, tc.want)
			}
		})
	}
}
