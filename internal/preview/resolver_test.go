package preview

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const redSquareSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="16" height="16" viewBox="0 0 16 16">
<rect x="0" y="0" width="16" height="16" fill="#ff0000"/>
</svg>`

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{0, 0, 255, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newImageServer(t *testing.T) *httptest.Server {
	t.Helper()
	pngData := pngBytes(t, 4, 4)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/icon.svg":
			w.Header().Set("Content-Type", "image/svg+xml; charset=utf-8")
			w.Write([]byte(redSquareSVG))
		case "/icon.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write(pngData)
		case "/sniffed":
			w.Header()["Content-Type"] = nil
			w.Write(pngData)
		case "/broken.webp":
			w.Header().Set("Content-Type", "image/webp")
			w.Write([]byte("RIFF not really webp"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestResolver(dir string) *Resolver {
	return NewResolver(Options{Dir: dir, UserAgent: "omnisuggest-test", MaxIconSize: 256})
}

func TestResolve_EmptyURL(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "previews")
	r := newTestResolver(dir)

	path, ok := r.Resolve(context.Background(), "")
	if ok || path != "" {
		t.Errorf("Expected no preview for empty url, got %q, %v", path, ok)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("Empty url should not touch the filesystem")
	}
}

func TestResolve_PNG(t *testing.T) {
	server := newImageServer(t)
	dir := t.TempDir()
	r := newTestResolver(dir)

	path, ok := r.Resolve(context.Background(), server.URL+"/icon.png")
	if !ok {
		t.Fatal("Expected png preview to resolve")
	}
	if filepath.Dir(path) != dir {
		t.Errorf("Expected file in %s, got %s", dir, path)
	}
	if !strings.HasSuffix(path, ".png") {
		t.Errorf("Expected .png extension, got %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected file to exist: %v", err)
	}
}

func TestResolve_SVGIsRasterized(t *testing.T) {
	server := newImageServer(t)
	dir := t.TempDir()
	r := newTestResolver(dir)

	path, ok := r.Resolve(context.Background(), server.URL+"/icon.svg")
	if !ok {
		t.Fatal("Expected svg preview to resolve")
	}
	if !strings.HasSuffix(path, ".png") {
		t.Fatalf("Expected rasterized png, got %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Rasterized file is not a png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
		t.Errorf("Expected 16x16 image, got %dx%d", b.Dx(), b.Dy())
	}

	svgFiles, _ := filepath.Glob(filepath.Join(dir, "*.svg"))
	if len(svgFiles) != 1 {
		t.Errorf("Expected the original svg to be kept alongside, found %d", len(svgFiles))
	}
}

func TestResolve_SniffsMissingContentType(t *testing.T) {
	server := newImageServer(t)
	r := newTestResolver(t.TempDir())

	path, ok := r.Resolve(context.Background(), server.URL+"/sniffed")
	if !ok {
		t.Fatal("Expected sniffed preview to resolve")
	}
	if !strings.HasSuffix(path, ".png") {
		t.Errorf("Expected sniffed .png extension, got %s", path)
	}
}

func TestResolve_Failures(t *testing.T) {
	server := newImageServer(t)
	r := newTestResolver(t.TempDir())

	for _, p := range []string{"/missing", "/broken.webp"} {
		t.Run(p, func(t *testing.T) {
			path, ok := r.Resolve(context.Background(), server.URL+p)
			if ok || path != "" {
				t.Errorf("Expected failure for %s, got %q, %v", p, path, ok)
			}
		})
	}

	closed := httptest.NewServer(http.NotFoundHandler())
	closed.Close()
	if _, ok := r.Resolve(context.Background(), closed.URL+"/icon.png"); ok {
		t.Error("Expected failure for unreachable host")
	}
}

func TestResolve_SizeLimit(t *testing.T) {
	server := newImageServer(t)
	size := int64(len(pngBytes(t, 4, 4)))

	dir := t.TempDir()
	small := NewResolver(Options{Dir: dir, MaxBytes: size - 1})
	if path, ok := small.Resolve(context.Background(), server.URL+"/icon.png"); ok || path != "" {
		t.Errorf("Expected oversized image to fail, got %q, %v", path, ok)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no file for an oversized image, found %d", len(entries))
	}

	exact := NewResolver(Options{Dir: dir, MaxBytes: size})
	path, ok := exact.Resolve(context.Background(), server.URL+"/icon.png")
	if !ok {
		t.Fatal("Expected an image of exactly max bytes to resolve")
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Errorf("Expected a decodable png, got %v", err)
	}
}

func TestPurge(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "previews")
	r := newTestResolver(dir)

	// Creates the directory when absent
	r.Purge()
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("Expected purge to create %s", dir)
	}

	for _, name := range []string{"a.png", "b.svg"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "keep"), 0755); err != nil {
		t.Fatal(err)
	}

	r.Purge()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "keep" {
		t.Errorf("Expected only the subdirectory to remain, got %v", entries)
	}

	// Idempotent
	r.Purge()
	entries, _ = os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("Expected second purge to be a no-op, got %v", entries)
	}
}

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		mediaType string
		want      string
	}{
		{"image/png", "png"},
		{"image/jpeg", "jpeg"},
		{"image/svg+xml", "svg"},
		{"image/x-icon", "x-icon"},
		{"image/vnd.microsoft.icon", "vnd.microsoft.icon"},
		{"garbage", "bin"},
		{"image/", "bin"},
	}

	for _, tt := range tests {
		t.Run(tt.mediaType, func(t *testing.T) {
			if got := extensionFor(tt.mediaType); got != tt.want {
				t.Errorf("extensionFor(%q) = %q, want %q", tt.mediaType, got, tt.want)
			}
		})
	}
}

func TestMediaTypeOf(t *testing.T) {
	if got := mediaTypeOf("Image/SVG+XML; charset=utf-8", nil); got != "image/svg+xml" {
		t.Errorf("Expected header media type, got %s", got)
	}
	if got := mediaTypeOf("", pngBytes(t, 1, 1)); got != "image/png" {
		t.Errorf("Expected sniffed image/png, got %s", got)
	}
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		w, h, max    int
		wantW, wantH int
	}{
		{16, 16, 256, 16, 16},
		{512, 256, 256, 256, 128},
		{256, 1024, 256, 64, 256},
		{1000, 1, 100, 100, 1},
	}

	for _, tt := range tests {
		w, h := fitWithin(tt.w, tt.h, tt.max)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("fitWithin(%d, %d, %d) = %d, %d, want %d, %d", tt.w, tt.h, tt.max, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestDownscale(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 600, 300))
	got := downscale(src, 256)
	if b := got.Bounds(); b.Dx() != 256 || b.Dy() != 128 {
		t.Errorf("Expected 256x128, got %dx%d", b.Dx(), b.Dy())
	}

	small := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if downscale(small, 256) != image.Image(small) {
		t.Error("Images within bounds should be returned unchanged")
	}
}
