package preview

import (
	"fmt"
	"image"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/ecg-tools-mcp/internal/imaging"
)

// viridisStops are evenly spaced samples of the viridis colormap.
var viridisStops = []string{
	"#440154", "#482878", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

// Gradient is a piecewise colormap blended in Lab space.
type Gradient []colorful.Color

// NewGradient parses hex color stops.
func NewGradient(stops ...string) (Gradient, error) {
	if len(stops) < 2 {
		return nil, fmt.Errorf("gradient needs at least 2 stops, got %d", len(stops))
	}
	g := make(Gradient, len(stops))
	for i, s := range stops {
		c, err := colorful.Hex(s)
		if err != nil {
			return nil, fmt.Errorf("invalid color stop %q: %w", s, err)
		}
		g[i] = c
	}
	return g, nil
}

// Viridis returns the default perceptual colormap for intensity previews.
func Viridis() Gradient {
	g, err := NewGradient(viridisStops...)
	if err != nil {
		panic(err)
	}
	return g
}

// At returns the color at t in [0,1]. Values outside are clamped.
func (g Gradient) At(t float64) colorful.Color {
	if t <= 0 {
		return g[0]
	}
	if t >= 1 {
		return g[len(g)-1]
	}
	pos := t * float64(len(g)-1)
	i := int(pos)
	return g[i].BlendLab(g[i+1], pos-float64(i)).Clamped()
}

// Colorize maps m through g, stretching the value range of m to [0,1].
// A constant matrix maps to the first stop.
func (g Gradient) Colorize(m *imaging.Matrix) *image.NRGBA {
	lo, hi := m.MinMax()
	span := hi - lo

	// 256 entries are enough for 8-bit output
	var lut [256]colorful.Color
	for i := range lut {
		lut[i] = g.At(float64(i) / 255)
	}

	img := image.NewNRGBA(image.Rect(0, 0, m.Cols, m.Rows))
	for i, v := range m.Data {
		idx := 0
		if span > 0 {
			idx = int((v-lo)/span*255 + 0.5)
		}
		r, gr, b := lut[idx].RGB255()
		img.Pix[i*4] = r
		img.Pix[i*4+1] = gr
		img.Pix[i*4+2] = b
		img.Pix[i*4+3] = 255
	}
	return img
}
