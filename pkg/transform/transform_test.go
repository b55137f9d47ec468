package transform

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"

	"github.com/moyu-x/image-mirror/pkg/codec"
	"github.com/moyu-x/image-mirror/pkg/format"
)

type encodeCall struct {
	path   string
	format format.Format
	opts   codec.Options
	bounds image.Rectangle
}

// fakeCodec 记录调用，不做真实编解码
type fakeCodec struct {
	mu        sync.Mutex
	decodeErr error
	size      image.Rectangle
	decoded   []string
	resized   int
	encoded   []encodeCall
}

func (f *fakeCodec) Decode(ctx context.Context, path string) (image.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decoded = append(f.decoded, path)
	if f.decodeErr != nil {
		return nil, f.decodeErr
	}
	size := f.size
	if size.Empty() {
		size = image.Rect(0, 0, 8, 8)
	}
	return image.NewNRGBA(size), nil
}

func (f *fakeCodec) Resize(img image.Image, maxWidth, maxHeight int) image.Image {
	f.mu.Lock()
	f.resized++
	f.mu.Unlock()
	return image.NewNRGBA(image.Rect(0, 0, maxWidth, maxHeight))
}

func (f *fakeCodec) Encode(ctx context.Context, img image.Image, path string, fm format.Format, opts codec.Options) (codec.Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.encoded = append(f.encoded, encodeCall{path: path, format: fm, opts: opts, bounds: img.Bounds()})
	return codec.Output{Size: 1024, Checksum: 42}, nil
}

func TestReformat_OutputPathIgnoresSourceExtension(t *testing.T) {
	r, err := NewReformat(&fakeCodec{}, format.WebP, Settings{Quality: 90})
	if err != nil {
		t.Fatalf("NewReformat() error = %v", err)
	}

	tests := map[string]string{
		"/out/a.jpg":        "/out/a.webp",
		"/out/a.JPEG":       "/out/a.webp",
		"/out/sub/b.png":    "/out/sub/b.webp",
		"/out/c.tiff":       "/out/c.webp",
		"/out/d.webp":       "/out/d.webp",
		"/out/e.backup.gif": "/out/e.backup.webp",
		"/out/.jpg":         "/out/.jpg.webp",
		"/out/.png":         "/out/.png.webp",
		"/out/.hidden.png":  "/out/.hidden.webp",
	}

	for in, want := range tests {
		if got := r.OutputPath(in); got != want {
			t.Errorf("OutputPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestReformat_Apply(t *testing.T) {
	fc := &fakeCodec{}
	r, err := NewReformat(fc, format.WebP, Settings{Quality: 90, Effort: 4})
	if err != nil {
		t.Fatalf("NewReformat() error = %v", err)
	}

	res, err := r.Apply(context.Background(), "/in/a.jpg", "/out/a.jpg")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if res.OutputPath != "/out/a.webp" {
		t.Errorf("Expected /out/a.webp, got %s", res.OutputPath)
	}
	if res.OutputSize != 1024 || res.Checksum != 42 {
		t.Errorf("Unexpected result: %+v", res)
	}
	if fc.resized != 0 {
		t.Error("Resize should not be called without bounds")
	}
	if len(fc.encoded) != 1 || fc.encoded[0].format != format.WebP || fc.encoded[0].opts.Quality != 90 {
		t.Errorf("Unexpected encode calls: %+v", fc.encoded)
	}
}

func TestReformat_ApplyResizes(t *testing.T) {
	fc := &fakeCodec{}
	r, err := NewReformat(fc, format.AVIF, Settings{Quality: 60, MaxWidth: 64, MaxHeight: 32})
	if err != nil {
		t.Fatalf("NewReformat() error = %v", err)
	}

	if _, err := r.Apply(context.Background(), "/in/a.png", "/out/a.png"); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if fc.resized != 1 {
		t.Errorf("Expected 1 resize, got %d", fc.resized)
	}
	if got := fc.encoded[0].bounds; got.Dx() != 64 || got.Dy() != 32 {
		t.Errorf("Expected resized image to be encoded, got %v", got)
	}
}

func TestReformat_DecodeFailure(t *testing.T) {
	fc := &fakeCodec{decodeErr: codec.ErrDecode}
	r, _ := NewReformat(fc, format.WebP, Settings{Quality: 90})

	_, err := r.Apply(context.Background(), "/in/broken.jpg", "/out/broken.jpg")
	if !errors.Is(err, codec.ErrDecode) {
		t.Fatalf("Expected ErrDecode, got %v", err)
	}
	if len(fc.encoded) != 0 {
		t.Error("Encode should not be called after decode failure")
	}
}

func TestNewReformat_Validation(t *testing.T) {
	if _, err := NewReformat(&fakeCodec{}, format.Format("bmp"), Settings{Quality: 90}); !errors.Is(err, format.ErrUnsupported) {
		t.Errorf("Expected ErrUnsupported for bmp target, got %v", err)
	}
	if _, err := NewReformat(&fakeCodec{}, format.WebP, Settings{Quality: 0}); err == nil {
		t.Error("Expected error for quality 0")
	}
	if _, err := NewReformat(&fakeCodec{}, format.WebP, Settings{Quality: 90, MaxWidth: -1}); err == nil {
		t.Error("Expected error for negative max width")
	}
}

func TestRecompress_Apply(t *testing.T) {
	tests := []struct {
		src    string
		format format.Format
	}{
		{"/in/a.jpg", format.JPEG},
		{"/in/a.JPG", format.JPEG},
		{"/in/a.jpeg", format.JPEG},
		{"/in/b.png", format.PNG},
		{"/in/c.gif", format.GIF},
		{"/in/d.tiff", format.TIFF},
		{"/in/e.webp", format.WebP},
		{"/in/f.avif", format.AVIF},
	}

	for _, tt := range tests {
		fc := &fakeCodec{}
		r, err := NewRecompress(fc, Settings{Quality: 75})
		if err != nil {
			t.Fatalf("NewRecompress() error = %v", err)
		}

		dest := "/out" + tt.src[3:]
		res, err := r.Apply(context.Background(), tt.src, dest)
		if err != nil {
			t.Fatalf("Apply(%s) error = %v", tt.src, err)
		}

		if res.OutputPath != dest {
			t.Errorf("%s: expected output %s, got %s", tt.src, dest, res.OutputPath)
		}
		if res.Format != tt.format || fc.encoded[0].format != tt.format {
			t.Errorf("%s: expected format %s, got %s", tt.src, tt.format, fc.encoded[0].format)
		}
		if fc.encoded[0].opts.Quality != 75 {
			t.Errorf("%s: expected quality 75, got %d", tt.src, fc.encoded[0].opts.Quality)
		}
	}
}

func TestRecompress_UnsupportedFormat(t *testing.T) {
	for _, src := range []string{"/in/c.bmp", "/in/.jpg"} {
		fc := &fakeCodec{}
		r, _ := NewRecompress(fc, Settings{Quality: 90})

		_, err := r.Apply(context.Background(), src, "/out/x")
		if !errors.Is(err, format.ErrUnsupported) {
			t.Fatalf("%s: expected ErrUnsupported, got %v", src, err)
		}
		if len(fc.decoded) != 0 {
			t.Errorf("%s: codec should not be called for unsupported format", src)
		}
	}
}
