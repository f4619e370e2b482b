package imaging

import (
	"math"
	"testing"
)

func TestGaussianKernel(t *testing.T) {
	tests := []struct {
		sigma      float64
		wantLength int
	}{
		{0.7, 7},  // radius int(2.8+0.5) = 3
		{1.0, 9},  // radius 4
		{0.25, 3}, // radius 1
	}

	for _, tt := range tests {
		k := gaussianKernel(tt.sigma)
		if len(k) != tt.wantLength {
			t.Errorf("sigma %.2f: kernel length got %d, want %d", tt.sigma, len(k), tt.wantLength)
		}
		var sum float64
		for _, w := range k {
			sum += w
		}
		if math.Abs(sum-1) > 1e-12 {
			t.Errorf("sigma %.2f: kernel sum got %f, want 1", tt.sigma, sum)
		}
		mid := len(k) / 2
		for i := 0; i < mid; i++ {
			if k[i] != k[len(k)-1-i] {
				t.Errorf("sigma %.2f: kernel not symmetric at %d", tt.sigma, i)
			}
		}
	}
}

func TestBlur_UniformStaysUniform(t *testing.T) {
	m := NewMatrix(20, 30)
	m.Fill(0.37)

	blurred := Blur(m, 0.7)

	first := blurred.Data[0]
	for i, v := range blurred.Data {
		if v != first {
			t.Fatalf("blurred[%d]: got %v, want %v (identical everywhere)", i, v, first)
		}
	}
	if math.Abs(first-0.37) > 1e-12 {
		t.Errorf("blurred value: got %f, want ~0.37", first)
	}
}

func TestBlur_WithSpot(t *testing.T) {
	m := NewMatrix(11, 11)
	m.Set(5, 5, 1.0)

	blurred := Blur(m, 1.0)

	if blurred.At(5, 5) >= 1.0 {
		t.Error("bright spot should be reduced after blur")
	}
	if blurred.At(5, 4) == 0 || blurred.At(4, 5) == 0 {
		t.Error("neighbors should receive some brightness from blur")
	}
	if blurred.At(5, 4) != blurred.At(4, 5) {
		t.Error("isotropic blur should spread equally along rows and columns")
	}
	if m.At(5, 5) != 1.0 {
		t.Error("Blur must not modify its input")
	}
}

func TestGaussian_ZeroSigmaIsIdentity(t *testing.T) {
	m := NewMatrix(3, 3)
	for i := range m.Data {
		m.Data[i] = float64(i)
	}

	out := Gaussian(m, 0, 0, Mirror)
	for i := range m.Data {
		if out.Data[i] != m.Data[i] {
			t.Errorf("out[%d]: got %f, want %f", i, out.Data[i], m.Data[i])
		}
	}
}

func TestBoundaryIndex(t *testing.T) {
	tests := []struct {
		i, n int
		mode BoundaryMode
		want int
	}{
		{2, 5, Nearest, 2},
		{-1, 5, Nearest, 0},
		{7, 5, Nearest, 4},
		{-1, 5, Mirror, 1},
		{-2, 5, Mirror, 2},
		{5, 5, Mirror, 3},
		{6, 5, Mirror, 2},
		{9, 5, Mirror, 1},
		{-3, 1, Mirror, 0},
		{1, 2, Mirror, 1},
		{2, 2, Mirror, 0},
	}

	for _, tt := range tests {
		got := boundaryIndex(tt.i, tt.n, tt.mode)
		if got != tt.want {
			t.Errorf("boundaryIndex(%d, %d, %d): got %d, want %d", tt.i, tt.n, tt.mode, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, want int
	}{
		{5, 0, 10, 5},   // within range
		{-1, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tt := range tests {
		got := clamp(tt.val, tt.min, tt.max)
		if got != tt.want {
			t.Errorf("clamp(%d, %d, %d): got %d, want %d",
				tt.val, tt.min, tt.max, got, tt.want)
		}
	}
}
