package probe

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"wallpaper-scraper/pkg/utils"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil); err != nil {
		t.Fatalf("encoding jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestDimensions_PNG(t *testing.T) {
	res, ok := Dimensions(encodePNG(t, 8, 4))
	if !ok {
		t.Fatal("Dimensions failed on a valid PNG")
	}
	if res != (utils.Resolution{Width: 8, Height: 4}) {
		t.Errorf("Dimensions = %v, want 8x4", res)
	}
}

func TestDimensions_JPEG(t *testing.T) {
	res, ok := Dimensions(encodeJPEG(t, 16, 9))
	if !ok {
		t.Fatal("Dimensions failed on a valid JPEG")
	}
	if res != (utils.Resolution{Width: 16, Height: 9}) {
		t.Errorf("Dimensions = %v, want 16x9", res)
	}
}

func TestDimensions_RejectsNonImages(t *testing.T) {
	for _, data := range [][]byte{nil, {}, []byte("<html>not an image</html>")} {
		if _, ok := Dimensions(data); ok {
			t.Errorf("Dimensions accepted %q", data)
		}
	}
}
