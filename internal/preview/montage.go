package preview

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// Tile is one titled panel of a montage.
type Tile struct {
	Title string
	Image image.Image
}

// Montage layout constants.
const (
	tileWidth   = 400
	tileHeight  = 260
	titleHeight = 24
	tilePadding = 8
)

// Montage lays tiles out row-major on a white canvas, cols tiles per row.
// Each image is fitted inside its cell keeping its aspect ratio and centred
// under its title. A nil image leaves an empty cell with only the title.
func Montage(tiles []Tile, cols int) image.Image {
	if cols < 1 {
		cols = 1
	}
	rows := (len(tiles) + cols - 1) / cols
	cellW := tileWidth + 2*tilePadding
	cellH := tileHeight + titleHeight + 2*tilePadding

	canvas := imaging.New(cols*cellW, rows*cellH, color.White)
	for i, t := range tiles {
		if t.Image == nil {
			continue
		}
		x := (i%cols)*cellW + tilePadding
		y := (i/cols)*cellH + tilePadding + titleHeight

		fitted := imaging.Fit(t.Image, tileWidth, tileHeight, imaging.Lanczos)
		cell := imaging.PasteCenter(imaging.New(tileWidth, tileHeight, color.White), fitted)
		canvas = imaging.Paste(canvas, cell, image.Pt(x, y))
	}

	// Titles go on last so they are never covered by a neighbouring tile
	dc := gg.NewContextForImage(canvas)
	dc.SetRGB(0, 0, 0)
	for i, t := range tiles {
		cx := float64((i%cols)*cellW + cellW/2)
		cy := float64((i/cols)*cellH + tilePadding + titleHeight/2)
		dc.DrawStringAnchored(t.Title, cx, cy, 0.5, 0.5)
	}
	return dc.Image()
}

// Titled draws a single title above img.
func Titled(img image.Image, title string) image.Image {
	b := img.Bounds()
	canvas := imaging.New(b.Dx(), b.Dy()+titleHeight, color.White)
	canvas = imaging.Paste(canvas, img, image.Pt(0, titleHeight))

	dc := gg.NewContextForImage(canvas)
	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(title, float64(b.Dx())/2, titleHeight/2, 0.5, 0.5)
	return dc.Image()
}
