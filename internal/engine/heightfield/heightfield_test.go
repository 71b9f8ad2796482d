package heightfield

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	gomath "math"
	"os"
	"path/filepath"
	"testing"
)

func TestNewFlat(t *testing.T) {
	f := NewFlat(4, 4, 0.5)

	if !f.Valid() {
		t.Fatal("flat field should be valid")
	}
	if f.Width() != 4 || f.Height() != 4 {
		t.Errorf("expected 4x4, got %dx%d", f.Width(), f.Height())
	}
	if f.MinHeight() != 0.5 || f.MaxHeight() != 0.5 {
		t.Errorf("expected min/max 0.5, got %v/%v", f.MinHeight(), f.MaxHeight())
	}
	if f.Sample(0.3, 0.7) != 0.5 {
		t.Errorf("expected constant 0.5, got %v", f.Sample(0.3, 0.7))
	}
}

func TestFromDataR8(t *testing.T) {
	raw := []byte{0, 128, 255, 64}
	f, err := FromData(raw, 2, 2, FormatR8)
	if err != nil {
		t.Fatalf("FromData failed: %v", err)
	}

	if f.At(0, 0) != 0 {
		t.Errorf("expected 0, got %v", f.At(0, 0))
	}
	if f.At(0, 1) != 1 {
		t.Errorf("expected 1, got %v", f.At(0, 1))
	}
	if got := f.At(1, 0); gomath.Abs(float64(got)-128.0/255.0) > 1e-6 {
		t.Errorf("expected 128/255, got %v", got)
	}
	if f.MinHeight() != 0 || f.MaxHeight() != 1 {
		t.Errorf("expected range [0,1], got [%v,%v]", f.MinHeight(), f.MaxHeight())
	}
}

func TestFromDataR16(t *testing.T) {
	raw := make([]byte, 8)
	binary.LittleEndian.PutUint16(raw[0:], 0)
	binary.LittleEndian.PutUint16(raw[2:], 65535)
	binary.LittleEndian.PutUint16(raw[4:], 32768)
	binary.LittleEndian.PutUint16(raw[6:], 16384)

	f, err := FromData(raw, 2, 2, FormatR16)
	if err != nil {
		t.Fatalf("FromData failed: %v", err)
	}

	if f.At(0, 0) != 0 {
		t.Errorf("expected 0, got %v", f.At(0, 0))
	}
	if f.At(1, 0) != 1 {
		t.Errorf("expected 1, got %v", f.At(1, 0))
	}
	if got := f.At(0, 1); gomath.Abs(float64(got)-0.5) > 1e-4 {
		t.Errorf("expected ~0.5, got %v", got)
	}
}

func TestFromDataR32F(t *testing.T) {
	raw := new(bytes.Buffer)
	for _, v := range []float32{0.1, 0.9, 0.4, 0.6} {
		if err := binary.Write(raw, binary.LittleEndian, v); err != nil {
			t.Fatalf("writing test data: %v", err)
		}
	}

	f, err := FromData(raw.Bytes(), 2, 2, FormatR32F)
	if err != nil {
		t.Fatalf("FromData failed: %v", err)
	}

	if got := f.At(1, 0); got != 0.9 {
		t.Errorf("expected 0.9, got %v", got)
	}
	if f.MinHeight() != 0.1 {
		t.Errorf("expected min 0.1, got %v", f.MinHeight())
	}
}

func TestFromDataErrors(t *testing.T) {
	if _, err := FromData([]byte{1, 2}, 0, 0, FormatR8); err == nil {
		t.Error("expected error for zero dimensions")
	}
	if _, err := FromData([]byte{1, 2}, 2, 2, FormatR8); err == nil {
		t.Error("expected error for short buffer")
	}
	if _, err := FromData(make([]byte, 16), 2, 2, Format(99)); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestSampleBilinear(t *testing.T) {
	// 2x2 field: 0 on the left column, 1 on the right
	f, err := FromData([]byte{0, 255, 0, 255}, 2, 2, FormatR8)
	if err != nil {
		t.Fatalf("FromData failed: %v", err)
	}

	if got := f.SampleBilinear(0, 0); got != 0 {
		t.Errorf("expected 0 at left edge, got %v", got)
	}
	if got := f.SampleBilinear(1, 0.5); got != 1 {
		t.Errorf("expected 1 at right edge, got %v", got)
	}
	if got := f.SampleBilinear(0.5, 0.5); gomath.Abs(float64(got)-0.5) > 1e-5 {
		t.Errorf("expected 0.5 at center, got %v", got)
	}
	if got := f.SampleBilinear(0.25, 0); gomath.Abs(float64(got)-0.25) > 1e-5 {
		t.Errorf("expected 0.25 a quarter across, got %v", got)
	}
}

func TestSampleClampsOutOfRange(t *testing.T) {
	f := NewFlat(4, 4, 0.7)

	if got := f.Sample(-1, 0.5); got != 0.7 {
		t.Errorf("expected clamped sample 0.7, got %v", got)
	}
	if got := f.Sample(0.5, 2); got != 0.7 {
		t.Errorf("expected clamped sample 0.7, got %v", got)
	}
}

func TestSampleNearest(t *testing.T) {
	f, err := FromData([]byte{0, 255, 255, 0}, 2, 2, FormatR8)
	if err != nil {
		t.Fatalf("FromData failed: %v", err)
	}

	if got := f.SampleNearest(0, 0); got != 0 {
		t.Errorf("expected 0 at origin, got %v", got)
	}
	if got := f.SampleNearest(1, 0); got != 1 {
		t.Errorf("expected 1 at (1,0), got %v", got)
	}
}

func TestInvalidFieldSamplesZero(t *testing.T) {
	var f *Field
	if f.Valid() {
		t.Error("nil field should not be valid")
	}
	if f.Sample(0.5, 0.5) != 0 {
		t.Error("nil field should sample as 0")
	}
}

func TestLoadPNG(t *testing.T) {
	// A 2x2 grayscale gradient written to disk and loaded back
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.SetGray(0, 0, color.Gray{Y: 0})
	img.SetGray(1, 0, color.Gray{Y: 255})
	img.SetGray(0, 1, color.Gray{Y: 128})
	img.SetGray(1, 1, color.Gray{Y: 64})

	path := filepath.Join(t.TempDir(), "height.png")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating test file: %v", err)
	}
	if err := png.Encode(file, img); err != nil {
		t.Fatalf("encoding test png: %v", err)
	}
	file.Close()

	f, err := LoadPNG(path)
	if err != nil {
		t.Fatalf("LoadPNG failed: %v", err)
	}

	if f.Width() != 2 || f.Height() != 2 {
		t.Errorf("expected 2x2, got %dx%d", f.Width(), f.Height())
	}
	if f.At(0, 0) != 0 {
		t.Errorf("expected black pixel to be 0, got %v", f.At(0, 0))
	}
	if got := f.At(1, 0); gomath.Abs(float64(got)-1) > 1e-3 {
		t.Errorf("expected white pixel to be ~1, got %v", got)
	}
}

func TestLoadPNGMissing(t *testing.T) {
	if _, err := LoadPNG("/nonexistent/height.png"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadRawMissing(t *testing.T) {
	if _, err := LoadRaw("/nonexistent/height.raw", 4, 4, FormatR8); err == nil {
		t.Error("expected error for missing file")
	}
}
