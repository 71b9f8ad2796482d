// Package heightfield provides 2D height sources sampled by the terrain
// streaming system. All sources are immutable after construction and safe
// for concurrent reads from background loader goroutines.
package heightfield

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
)

// Format describes the pixel format of raw height data.
type Format int

// Supported raw formats.
const (
	FormatR8   Format = iota // 8-bit unsigned, normalized to [0,1]
	FormatR16                // 16-bit unsigned little-endian, normalized to [0,1]
	FormatR32F               // 32-bit float, used as-is
)

// Field is a raster heightfield with normalized-UV sampling.
type Field struct {
	data   []float32
	width  uint32
	height uint32
	minH   float32
	maxH   float32
}

// NewFlat returns a field of the given size filled with a constant height.
func NewFlat(width, height uint32, value float32) *Field {
	data := make([]float32, width*height)
	for i := range data {
		data[i] = value
	}
	return &Field{data: data, width: width, height: height, minH: value, maxH: value}
}

// FromData builds a field from raw bytes in the given format.
func FromData(raw []byte, width, height uint32, format Format) (*Field, error) {
	count := int(width) * int(height)
	if count == 0 {
		return nil, fmt.Errorf("heightfield: zero dimensions %dx%d", width, height)
	}

	var expected int
	switch format {
	case FormatR8:
		expected = count
	case FormatR16:
		expected = count * 2
	case FormatR32F:
		expected = count * 4
	default:
		return nil, fmt.Errorf("heightfield: unknown format %d", format)
	}
	if len(raw) < expected {
		return nil, fmt.Errorf("heightfield: need %d bytes for %dx%d, got %d", expected, width, height, len(raw))
	}

	data := make([]float32, count)
	switch format {
	case FormatR8:
		for i := 0; i < count; i++ {
			data[i] = float32(raw[i]) / 255.0
		}
	case FormatR16:
		for i := 0; i < count; i++ {
			data[i] = float32(binary.LittleEndian.Uint16(raw[i*2:])) / 65535.0
		}
	case FormatR32F:
		for i := 0; i < count; i++ {
			data[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
		}
	}

	f := &Field{data: data, width: width, height: height}
	f.updateMinMax()
	return f, nil
}

// LoadRaw reads a raw binary heightmap file with known dimensions.
func LoadRaw(path string, width, height uint32, format Format) (*Field, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("heightfield: reading %s: %w", path, err)
	}
	return FromData(raw, width, height, format)
}

// FromImage builds a field from an image, using pixel luminance as height.
func FromImage(img image.Image) *Field {
	bounds := img.Bounds()
	w := uint32(bounds.Dx())
	h := uint32(bounds.Dy())

	data := make([]float32, int(w)*int(h))
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// Rec. 601 luma, 16-bit channels
			luma := 0.299*float32(r) + 0.587*float32(g) + 0.114*float32(b)
			data[i] = luma / 65535.0
			i++
		}
	}

	f := &Field{data: data, width: w, height: h}
	f.updateMinMax()
	return f
}

// LoadPNG reads a PNG heightmap file.
func LoadPNG(path string) (*Field, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("heightfield: opening %s: %w", path, err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("heightfield: decoding %s: %w", path, err)
	}
	return FromImage(img), nil
}

// Valid reports whether the field holds data.
func (f *Field) Valid() bool {
	return f != nil && len(f.data) > 0
}

// Width returns the field width in samples.
func (f *Field) Width() uint32 { return f.width }

// Height returns the field height in samples.
func (f *Field) Height() uint32 { return f.height }

// MinHeight returns the smallest stored height.
func (f *Field) MinHeight() float32 { return f.minH }

// MaxHeight returns the largest stored height.
func (f *Field) MaxHeight() float32 { return f.maxH }

// At returns the height at integer sample coordinates, clamped to bounds.
func (f *Field) At(x, y int) float32 {
	if !f.Valid() {
		return 0
	}
	x = clampi(x, 0, int(f.width)-1)
	y = clampi(y, 0, int(f.height)-1)
	return f.data[y*int(f.width)+x]
}

// Sample returns the bilinearly-filtered height at normalized coordinates.
// Implements the terrain streamer's height source contract.
func (f *Field) Sample(u, v float32) float32 {
	return f.SampleBilinear(u, v)
}

// SampleNearest returns the nearest sample to normalized coordinates.
func (f *Field) SampleNearest(u, v float32) float32 {
	if !f.Valid() {
		return 0
	}
	u = clampf(u, 0, 1)
	v = clampf(v, 0, 1)
	x := int(u * float32(f.width-1))
	y := int(v * float32(f.height-1))
	return f.At(x, y)
}

// SampleBilinear returns the bilinearly-interpolated height at normalized
// coordinates.
func (f *Field) SampleBilinear(u, v float32) float32 {
	if !f.Valid() {
		return 0
	}
	u = clampf(u, 0, 1)
	v = clampf(v, 0, 1)

	fx := u * float32(f.width-1)
	fy := v * float32(f.height-1)
	x0 := int(fx)
	y0 := int(fy)
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	h00 := f.At(x0, y0)
	h10 := f.At(x0+1, y0)
	h01 := f.At(x0, y0+1)
	h11 := f.At(x0+1, y0+1)

	top := h00*(1-tx) + h10*tx
	bottom := h01*(1-tx) + h11*tx
	return top*(1-ty) + bottom*ty
}

func (f *Field) updateMinMax() {
	if len(f.data) == 0 {
		return
	}
	f.minH = f.data[0]
	f.maxH = f.data[0]
	for _, h := range f.data[1:] {
		if h < f.minH {
			f.minH = h
		}
		if h > f.maxH {
			f.maxH = h
		}
	}
}

func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampi(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
