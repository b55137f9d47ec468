package codec

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/avif"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	"github.com/spf13/afero"
	_ "golang.org/x/image/webp" // 注册 WebP 解码器

	"github.com/moyu-x/image-mirror/pkg/format"
	"github.com/moyu-x/image-mirror/pkg/logger"
)

// Imaging 基于 imaging / go-webp / avif 的 Codec 实现
type Imaging struct {
	Fs afero.Fs
}

// NewImaging 创建编解码器，fs 为 nil 时使用操作系统文件系统
func NewImaging(fs afero.Fs) *Imaging {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Imaging{Fs: fs}
}

// Decode 解码图片并按 EXIF 方向摆正
func (c *Imaging) Decode(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := c.Fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	defer file.Close()

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %s (内容识别为 %s): %w", ErrDecode, path, c.sniff(path), err)
	}

	logger.Get().Trace().Msgf("解码完成: %s (%dx%d)", path, img.Bounds().Dx(), img.Bounds().Dy())
	return img, nil
}

// Resize 等比缩小，不放大
func (c *Imaging) Resize(img image.Image, maxWidth, maxHeight int) image.Image {
	b := img.Bounds()
	w, h := maxWidth, maxHeight
	if w <= 0 {
		w = b.Dx()
	}
	if h <= 0 {
		h = b.Dy()
	}

	if b.Dx() <= w && b.Dy() <= h {
		return img
	}

	return imaging.Fit(img, w, h, imaging.Lanczos)
}

// Encode 编码写出，先写临时文件再重命名
func (c *Imaging) Encode(ctx context.Context, img image.Image, path string, f format.Format, opts Options) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}

	if !f.Valid() {
		return Output{}, fmt.Errorf("%w: %s", format.ErrUnsupported, f)
	}

	out, err := writeAtomic(c.Fs, path, func(w io.Writer) error {
		return encodeTo(w, img, f, opts)
	})
	if err != nil {
		return Output{}, fmt.Errorf("%w: %s -> %s: %w", ErrEncode, f, path, err)
	}

	return out, nil
}

func encodeTo(w io.Writer, img image.Image, f format.Format, opts Options) error {
	switch f {
	case format.JPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(opts.Quality))
	case format.PNG:
		return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	case format.GIF:
		return imaging.Encode(w, img, imaging.GIF, imaging.GIFNumColors(256))
	case format.TIFF:
		return imaging.Encode(w, img, imaging.TIFF)
	case format.WebP:
		options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, float32(opts.Quality))
		if err != nil {
			return err
		}
		options.Method = webpMethod(opts.Effort)
		return webp.Encode(w, img, options)
	case format.AVIF:
		return avif.Encode(w, img, avif.Options{
			Quality:      opts.Quality,
			QualityAlpha: opts.Quality,
			Speed:        avifSpeed(opts.Effort),
		})
	default:
		return fmt.Errorf("%w: %s", format.ErrUnsupported, f)
	}
}

// webpMethod 压缩力度映射为 WebP method (0-6)
func webpMethod(effort int) int {
	return clamp(effort, 0, 6)
}

// avifSpeed 压缩力度映射为 AVIF speed，力度越大 speed 越小
func avifSpeed(effort int) int {
	return clamp(10-effort, 0, 10)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
