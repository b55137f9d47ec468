package app

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/moyu-x/image-mirror/internal"
	"github.com/moyu-x/image-mirror/pkg/codec"
	"github.com/moyu-x/image-mirror/pkg/format"
	"github.com/moyu-x/image-mirror/pkg/logger"
	"github.com/moyu-x/image-mirror/pkg/scanner"
	"github.com/moyu-x/image-mirror/pkg/transform"
	"github.com/moyu-x/image-mirror/pkg/walker"
)

type ConvertOptions struct {
	Operation    internal.Operation
	SourceDir    string
	DestDir      string
	Target       string // 仅 reformat 使用
	Settings     transform.Settings
	Workers      int
	Placeholders []string

	// Observer 接收每个条目的处理事件（TUI 使用）
	Observer func(walker.Event)

	// Fs 为空时使用操作系统文件系统
	Fs afero.Fs
}

// NewTransform 按操作模式创建转换策略
func NewTransform(c codec.Codec, opts *ConvertOptions) (walker.Transform, error) {
	switch opts.Operation {
	case internal.OpReformat:
		target, err := format.Parse(opts.Target)
		if err != nil {
			return nil, fmt.Errorf("无效的目标格式: %w", err)
		}
		return transform.NewReformat(c, target, opts.Settings)
	case internal.OpRecompress:
		return transform.NewRecompress(c, opts.Settings)
	default:
		return nil, fmt.Errorf("未知的操作: %s", opts.Operation)
	}
}

// CountImages 预先统计源目录中的图片数量
func CountImages(opts *ConvertOptions) (int, error) {
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return scanner.NewImageScanner(fs, nil).CountImages([]string{opts.SourceDir})
}

// RunConvert 镜像源目录并对每个图片执行转换
func RunConvert(ctx context.Context, opts *ConvertOptions) (*walker.Outcome, error) {
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	t, err := NewTransform(codec.NewImaging(fs), opts)
	if err != nil {
		return nil, err
	}

	logger.Get().Info().Msgf("操作模式: %s", opts.Operation)
	logger.Get().Info().Msgf("源目录: %s", opts.SourceDir)
	logger.Get().Info().Msgf("目标目录: %s", opts.DestDir)
	if opts.Operation == internal.OpReformat {
		logger.Get().Info().Msgf("目标格式: %s", opts.Target)
	}
	logger.Get().Info().Msgf("质量: %d，并发数: %d", opts.Settings.Quality, opts.Workers)

	w := walker.New(fs, t, walker.Options{
		Workers:      opts.Workers,
		Placeholders: opts.Placeholders,
		Observer:     opts.Observer,
	})

	outcome, err := w.Walk(ctx, opts.SourceDir, opts.DestDir)
	if err != nil {
		return outcome, fmt.Errorf("图片转换失败: %w", err)
	}

	return outcome, nil
}
