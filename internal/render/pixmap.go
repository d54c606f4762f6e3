package render

import (
	"image"
	"image/color"
	"image/png"
	"os"
)

// Pixmap is a rectangular RGBA pixel buffer.
type Pixmap struct {
	width  int
	height int
	data   []uint8
}

func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

func (p *Pixmap) Width() int    { return p.width }
func (p *Pixmap) Height() int   { return p.height }
func (p *Pixmap) Data() []uint8 { return p.data }

func (p *Pixmap) SetPixel(x, y int, c Color) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i+0] = uint8(clamp255(c.R))
	p.data[i+1] = uint8(clamp255(c.G))
	p.data[i+2] = uint8(clamp255(c.B))
	p.data[i+3] = 255
}

func (p *Pixmap) GetPixel(x, y int) Color {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return Color{}
	}
	i := (y*p.width + x) * 4
	return Color{
		R: float64(p.data[i+0]),
		G: float64(p.data[i+1]),
		B: float64(p.data[i+2]),
	}
}

func (p *Pixmap) FillRect(x, y, w, h int, c Color) {
	for yi := y; yi < y+h; yi++ {
		for xi := x; xi < x+w; xi++ {
			p.SetPixel(xi, yi, c)
		}
	}
}

func (p *Pixmap) Clear(c Color) {
	r := uint8(clamp255(c.R))
	g := uint8(clamp255(c.G))
	b := uint8(clamp255(c.B))
	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = r
		p.data[i+1] = g
		p.data[i+2] = b
		p.data[i+3] = 255
	}
}

func (p *Pixmap) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// SavePNG writes the pixmap to path as a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, p.ToImage())
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	c := p.GetPixel(x, y)
	return color.RGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: 255}
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.RGBAModel
}
