package validators

import (
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/mvasseur/fripe-backend/pkg/errors"
)

func TestParseQueryInt(t *testing.T) {
	cases := []struct {
		name     string
		url      string
		fallback int
		want     int
		wantErr  bool
	}{
		{name: "absent uses default", url: "/offers", fallback: 20, want: 20},
		{name: "valid value", url: "/offers?limit=50", fallback: 20, want: 50},
		{name: "non numeric", url: "/offers?limit=abc", fallback: 20, wantErr: true},
		{name: "out of range", url: "/offers?limit=500", fallback: 20, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tc.url, nil)
			got, err := ParseQueryInt(r, "limit", tc.fallback, 1, 100)
			if tc.wantErr {
				typed := pkgerrors.As(err)
				if typed == nil || typed.Code() != pkgerrors.CodeValidation {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestParseQueryFloat(t *testing.T) {
	r := httptest.NewRequest("GET", "/offers?priceMin=39.5", nil)

	got, err := ParseQueryFloat(r, "priceMin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || *got != 39.5 {
		t.Fatalf("got %v, want 39.5", got)
	}

	absent, err := ParseQueryFloat(r, "priceMax")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if absent != nil {
		t.Fatalf("expected nil for absent parameter, got %v", absent)
	}

	r = httptest.NewRequest("GET", "/offers?priceMin=cheap", nil)
	if _, err := ParseQueryFloat(r, "priceMin"); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
}
