package imaging

import (
	"testing"
)

func TestOtsuThreshold_Bimodal(t *testing.T) {
	m := NewMatrix(10, 10)
	for i := range m.Data {
		if i < 30 {
			m.Data[i] = 0.1
		} else {
			m.Data[i] = 0.9
		}
	}

	thresh := OtsuThreshold(m)
	if thresh <= 0.1 || thresh >= 0.9 {
		t.Errorf("threshold %f should separate 0.1 and 0.9", thresh)
	}

	dark := 0
	for _, v := range m.Data {
		if v < thresh {
			dark++
		}
	}
	if dark != 30 {
		t.Errorf("values below threshold: got %d, want 30", dark)
	}
}

func TestOtsuThreshold_Uniform(t *testing.T) {
	m := NewMatrix(5, 5)
	m.Fill(0.42)

	thresh := OtsuThreshold(m)
	if thresh != 0.42 {
		t.Errorf("uniform threshold: got %f, want 0.42", thresh)
	}
	for _, v := range m.Data {
		if v < thresh {
			t.Fatal("no value should fall below the degenerate threshold")
		}
	}
}

func TestHistogram(t *testing.T) {
	values := []float64{0, 0.25, 0.5, 0.75, 1}

	counts, centers := histogram(values, 0, 1, 4)

	wantCounts := []float64{1, 1, 1, 2} // 1 is placed in the last bin
	for i, w := range wantCounts {
		if counts[i] != w {
			t.Errorf("counts[%d]: got %f, want %f", i, counts[i], w)
		}
	}
	wantCenters := []float64{0.125, 0.375, 0.625, 0.875}
	for i, w := range wantCenters {
		if centers[i] != w {
			t.Errorf("centers[%d]: got %f, want %f", i, centers[i], w)
		}
	}
}

func TestReverseCumSum(t *testing.T) {
	got := reverseCumSum([]float64{1, 2, 3})
	want := []float64{6, 5, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("reverseCumSum[%d]: got %f, want %f", i, got[i], want[i])
		}
	}
}
