package actor

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// =============================================================================
// AABB Tests
// =============================================================================

func TestAABBOverlaps(t *testing.T) {
	unit := AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}}

	tests := []struct {
		name  string
		other AABB
		want  bool
	}{
		{"separated on X", AABB{Min: mgl64.Vec3{2, 0, 0}, Max: mgl64.Vec3{3, 1, 1}}, false},
		{"separated on Y", AABB{Min: mgl64.Vec3{0, -2, 0}, Max: mgl64.Vec3{1, -1, 1}}, false},
		{"separated on Z", AABB{Min: mgl64.Vec3{0, 0, 2}, Max: mgl64.Vec3{1, 1, 3}}, false},
		{"partial overlap", AABB{Min: mgl64.Vec3{0.5, 0.5, 0.5}, Max: mgl64.Vec3{2, 2, 2}}, true},
		{"face touching", AABB{Min: mgl64.Vec3{1, 0, 0}, Max: mgl64.Vec3{2, 1, 1}}, true},
		{"contained", AABB{Min: mgl64.Vec3{0.25, 0.25, 0.25}, Max: mgl64.Vec3{0.75, 0.75, 0.75}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := unit.Overlaps(tt.other); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			// Test symmetry
			if got := tt.other.Overlaps(unit); got != tt.want {
				t.Errorf("Overlaps() symmetry = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAABBExpand(t *testing.T) {
	aabb := AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}}.Expand(0.5)

	if aabb.Min != (mgl64.Vec3{-0.5, -0.5, -0.5}) {
		t.Errorf("Min = %v, want {-0.5,-0.5,-0.5}", aabb.Min)
	}
	if aabb.Max != (mgl64.Vec3{1.5, 1.5, 1.5}) {
		t.Errorf("Max = %v, want {1.5,1.5,1.5}", aabb.Max)
	}
}

func TestAABBExpand_ZeroMargin(t *testing.T) {
	aabb := AABB{Min: mgl64.Vec3{-1, 2, 3}, Max: mgl64.Vec3{1, 4, 5}}

	if got := aabb.Expand(0); got != aabb {
		t.Errorf("Expand(0) = %v, want %v", got, aabb)
	}
}
