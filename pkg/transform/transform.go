// Package transform 提供两种可互换的单文件处理策略：
// Reformat 转换为固定目标格式，Recompress 按原格式以固定质量重新编码。
package transform

import (
	"context"
	"fmt"
	"strings"

	"github.com/moyu-x/image-mirror/pkg/codec"
	"github.com/moyu-x/image-mirror/pkg/format"
)

const (
	// DefaultQuality 默认编码质量
	DefaultQuality = 90

	// DefaultEffort 默认压缩力度
	DefaultEffort = 4
)

// Result 单个文件的处理结果
type Result struct {
	OutputPath string
	OutputSize int64
	Checksum   uint64
	Format     format.Format
}

// Settings 策略共用的编码设置
type Settings struct {
	Quality   int
	Effort    int
	MaxWidth  int // 仅 Reformat 使用，0 表示不限
	MaxHeight int // 仅 Reformat 使用，0 表示不限
}

func (s Settings) options() codec.Options {
	return codec.Options{Quality: s.Quality, Effort: s.Effort}
}

func (s Settings) validate() error {
	if s.Quality < 1 || s.Quality > 100 {
		return fmt.Errorf("质量必须在 1-100 之间: %d", s.Quality)
	}
	if s.MaxWidth < 0 || s.MaxHeight < 0 {
		return fmt.Errorf("最大尺寸不能为负数: %dx%d", s.MaxWidth, s.MaxHeight)
	}
	return nil
}

// Reformat 把图片转换为固定的目标格式
type Reformat struct {
	codec    codec.Codec
	target   format.Format
	settings Settings
}

// NewReformat 创建格式转换策略，target 必须在可编码集合中
func NewReformat(c codec.Codec, target format.Format, settings Settings) (*Reformat, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("目标格式无效: %w: %s", format.ErrUnsupported, target)
	}
	if err := settings.validate(); err != nil {
		return nil, err
	}
	return &Reformat{codec: c, target: target, settings: settings}, nil
}

// Name 策略名称
func (r *Reformat) Name() string {
	return "reformat"
}

// OutputPath 把目标路径的扩展名替换为目标格式扩展名，与源扩展名无关
func (r *Reformat) OutputPath(destPath string) string {
	return strings.TrimSuffix(destPath, format.Ext(destPath)) + r.target.Ext()
}

// Apply 解码、按需缩小并编码为目标格式
func (r *Reformat) Apply(ctx context.Context, srcPath, destPath string) (Result, error) {
	outputPath := r.OutputPath(destPath)

	img, err := r.codec.Decode(ctx, srcPath)
	if err != nil {
		return Result{}, err
	}

	if r.settings.MaxWidth > 0 || r.settings.MaxHeight > 0 {
		img = r.codec.Resize(img, r.settings.MaxWidth, r.settings.MaxHeight)
	}

	out, err := r.codec.Encode(ctx, img, outputPath, r.target, r.settings.options())
	if err != nil {
		return Result{}, err
	}

	return Result{
		OutputPath: outputPath,
		OutputSize: out.Size,
		Checksum:   out.Checksum,
		Format:     r.target,
	}, nil
}

// Recompress 按源文件自身格式重新编码
type Recompress struct {
	codec    codec.Codec
	settings Settings
}

// NewRecompress 创建重新压缩策略
func NewRecompress(c codec.Codec, settings Settings) (*Recompress, error) {
	if err := settings.validate(); err != nil {
		return nil, err
	}
	return &Recompress{codec: c, settings: settings}, nil
}

// Name 策略名称
func (r *Recompress) Name() string {
	return "recompress"
}

// Apply 以源扩展名确定格式并写入 destPath。
// 扩展名不在可编码集合中时返回 format.ErrUnsupported，不调用编解码器。
func (r *Recompress) Apply(ctx context.Context, srcPath, destPath string) (Result, error) {
	f, err := format.FromPath(srcPath)
	if err != nil {
		return Result{}, err
	}

	img, err := r.codec.Decode(ctx, srcPath)
	if err != nil {
		return Result{}, err
	}

	out, err := r.codec.Encode(ctx, img, destPath, f, r.settings.options())
	if err != nil {
		return Result{}, err
	}

	return Result{
		OutputPath: destPath,
		OutputSize: out.Size,
		Checksum:   out.Checksum,
		Format:     f,
	}, nil
}
