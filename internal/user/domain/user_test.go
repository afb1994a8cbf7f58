package domain_test

import (
	"testing"

	"github.com/mzhdanov/bloglist/internal/user/domain"
)

func TestIDEquals(t *testing.T) {
	tests := []struct {
		name string
		a, b domain.ID
		want bool
	}{
		{
			name: "identical uuids",
			a:    "c2d29867-3d0b-4497-9191-18a9d8ee7830",
			b:    "c2d29867-3d0b-4497-9191-18a9d8ee7830",
			want: true,
		},
		{
			name: "same uuid different casing",
			a:    "c2d29867-3d0b-4497-9191-18a9d8ee7830",
			b:    "C2D29867-3D0B-4497-9191-18A9D8EE7830",
			want: true,
		},
		{
			name: "different uuids",
			a:    "c2d29867-3d0b-4497-9191-18a9d8ee7830",
			b:    "a81bc81b-dead-4e5d-abff-90865d1e13b1",
			want: false,
		},
		{
			name: "non-uuid falls back to raw equality",
			a:    "legacy-id-1",
			b:    "legacy-id-1",
			want: true,
		},
		{
			name: "non-uuid mismatch",
			a:    "legacy-id-1",
			b:    "legacy-id-2",
			want: false,
		},
		{
			name: "uuid never equals non-uuid",
			a:    "c2d29867-3d0b-4497-9191-18a9d8ee7830",
			b:    "legacy-id-1",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equals(tt.b); got != tt.want {
				t.Errorf("Equals(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
