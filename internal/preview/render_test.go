package preview

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/ecg-tools-mcp/internal/imaging"
)

func TestGradient_At(t *testing.T) {
	g, err := NewGradient("#000000", "#ffffff")
	if err != nil {
		t.Fatalf("NewGradient failed: %v", err)
	}

	tests := []struct {
		name string
		t    float64
		want uint8
	}{
		{"below range", -1, 0},
		{"start", 0, 0},
		{"end", 1, 255},
		{"above range", 2, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := g.At(tt.t).RGB255()
			if r != tt.want {
				t.Errorf("red: got %d, want %d", r, tt.want)
			}
		})
	}

	if _, err := NewGradient("#000000"); err == nil {
		t.Error("expected error for a single stop")
	}
	if _, err := NewGradient("#000000", "nothex"); err == nil {
		t.Error("expected error for an invalid stop")
	}
}

func TestColorize(t *testing.T) {
	m := imaging.NewMatrix(2, 2)
	m.Data = []float64{0, 0.5, 0.5, 1}

	img := Viridis().Colorize(m)
	if img.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("bounds: got %v", img.Bounds())
	}
	first := img.NRGBAAt(0, 0)
	last := img.NRGBAAt(1, 1)
	if first == last {
		t.Error("extremes should map to different colors")
	}
	if first.A != 255 || last.A != 255 {
		t.Error("colorized pixels should be opaque")
	}

	flat := imaging.NewMatrix(1, 3)
	flat.Fill(0.7)
	out := Viridis().Colorize(flat)
	if out.NRGBAAt(0, 0) != out.NRGBAAt(2, 0) {
		t.Error("constant matrix should map to one color")
	}
}

func TestMontage_Layout(t *testing.T) {
	tile := imaging.NewMatrix(30, 60)
	tiles := make([]Tile, 12)
	for i := range tiles {
		tiles[i] = Tile{Title: "t", Image: tile.ToGray()}
	}
	tiles[5].Image = nil

	img := Montage(tiles, 3)
	cellW := tileWidth + 2*tilePadding
	cellH := tileHeight + titleHeight + 2*tilePadding
	if img.Bounds().Dx() != 3*cellW || img.Bounds().Dy() != 4*cellH {
		t.Errorf("montage size: got %v, want %dx%d", img.Bounds().Size(), 3*cellW, 4*cellH)
	}
}

func TestPlotContour(t *testing.T) {
	pts := imaging.NewMatrix(255, 2)
	for i := 0; i < pts.Rows; i++ {
		pts.Set(i, 0, 10)
		pts.Set(i, 1, float64(i))
	}

	// Flat contours must still render
	img, err := PlotContour(pts)
	if err != nil {
		t.Fatalf("PlotContour failed: %v", err)
	}
	if img.Bounds().Dx() != tileWidth || img.Bounds().Dy() != tileHeight {
		t.Errorf("plot size: got %v", img.Bounds().Size())
	}

	if _, err := PlotContour(imaging.NewMatrix(3, 3)); err == nil {
		t.Error("expected error for a non N x 2 matrix")
	}
}

func TestTitled(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 50, 20))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	img := Titled(src, "Leads 13")
	if img.Bounds().Dy() != 20+titleHeight {
		t.Errorf("height: got %d, want %d", img.Bounds().Dy(), 20+titleHeight)
	}
	if c := color.GrayModel.Convert(img.At(25, titleHeight+10)).(color.Gray); c.Y != 255 {
		t.Errorf("image body should be preserved, got %v", c)
	}
}
