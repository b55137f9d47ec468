// Package walker 递归遍历源目录，在目标位置镜像目录结构，
// 并对每个识别出的图片调用单文件转换。
//
// 同一目录下的条目并发处理，每个目录等待其下所有工作（包括子目录）完成后才结束。
// 单个文件的失败只记录日志，不影响其他文件；只有目录级别的文件系统错误会终止运行。
package walker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"go.uber.org/multierr"

	"github.com/moyu-x/image-mirror/pkg/format"
	"github.com/moyu-x/image-mirror/pkg/logger"
	"github.com/moyu-x/image-mirror/pkg/transform"
)

// DefaultPlaceholder 保持空目录的占位文件
const DefaultPlaceholder = ".gitkeep"

// Transform 单文件转换策略
type Transform interface {
	Name() string
	Apply(ctx context.Context, srcPath, destPath string) (transform.Result, error)
}

// Options 遍历参数
type Options struct {
	// Workers 并发转换的文件数上限，<= 0 表示不限制
	Workers int
	// Placeholders 静默跳过的文件名，为空时使用 DefaultPlaceholder
	Placeholders []string
	// Match 判断文件名是否为图片，为空时使用 format.Recognized
	Match func(name string) bool
	// Observer 接收每个条目的处理事件，会被并发调用
	Observer func(Event)
	// Logger 为空时使用全局 logger
	Logger *zerolog.Logger
}

// Walker 目录镜像遍历器
type Walker struct {
	fs           afero.Fs
	transform    Transform
	opts         Options
	placeholders map[string]bool
}

// New 创建遍历器
func New(fs afero.Fs, t Transform, opts Options) *Walker {
	if opts.Match == nil {
		opts.Match = format.Recognized
	}
	if len(opts.Placeholders) == 0 {
		opts.Placeholders = []string{DefaultPlaceholder}
	}

	placeholders := make(map[string]bool, len(opts.Placeholders))
	for _, name := range opts.Placeholders {
		placeholders[name] = true
	}

	return &Walker{
		fs:           fs,
		transform:    t,
		opts:         opts,
		placeholders: placeholders,
	}
}

// run 一次 Walk 调用的全部可变状态
type run struct {
	w      *Walker
	log    zerolog.Logger
	pool   *ants.Pool
	cancel context.CancelFunc
	stats  *Stats

	// destRoot 目标根目录的绝对路径，目标位于源目录内部时用于跳过它
	destRoot string

	directories atomic.Int64
	converted   atomic.Int64
	failed      atomic.Int64
	unsupported atomic.Int64
	skipped     atomic.Int64
	canceled    atomic.Int64
}

// Walk 遍历 sourceDir 并把结果镜像到 destDir。
// 源目录不存在或不可读、目标目录无法创建时返回错误；单个文件失败只计入 Outcome。
func (w *Walker) Walk(ctx context.Context, sourceDir, destDir string) (*Outcome, error) {
	info, err := w.fs.Stat(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("读取源目录失败: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("源路径不是目录: %s", sourceDir)
	}

	base := w.opts.Logger
	if base == nil {
		base = logger.Get()
	}

	runID := uuid.NewString()
	r := &run{
		w:     w,
		log:   base.With().Str("run", runID).Str("operation", w.transform.Name()).Logger(),
		stats: &Stats{},
	}
	r.destRoot = absPath(destDir)

	size := w.opts.Workers
	if size <= 0 {
		size = -1
	}
	r.pool, err = ants.NewPool(size)
	if err != nil {
		return nil, fmt.Errorf("创建 goroutine 池失败: %w", err)
	}
	defer r.pool.Release()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	r.cancel = cancel

	r.log.Info().Msgf("开始处理: %s -> %s", sourceDir, destDir)
	start := time.Now()

	walkErr := r.walkDir(runCtx, sourceDir, destDir)
	if walkErr == nil && ctx.Err() != nil {
		walkErr = ctx.Err()
	}

	outcome := r.outcome(runID, time.Since(start))
	r.logSummary(outcome, walkErr)

	return outcome, walkErr
}

// walkDir 处理一个目录：先确保目标目录存在，再并发处理所有条目并等待完成
func (r *run) walkDir(ctx context.Context, srcDir, destDir string) error {
	if err := r.w.fs.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("创建目标目录失败: %s: %w", destDir, err)
	}
	r.directories.Add(1)

	infos, err := afero.ReadDir(r.w.fs, srcDir)
	if err != nil {
		return fmt.Errorf("读取目录失败: %s: %w", srcDir, err)
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
	)

	for _, info := range infos {
		if ctx.Err() != nil {
			r.log.Debug().Str("dir", srcDir).Msg("运行已取消，停止提交新任务")
			break
		}

		entry := r.w.classify(srcDir, destDir, info)

		switch entry.Class {
		case ClassDirectory:
			if absPath(entry.SourcePath) == r.destRoot {
				r.log.Warn().Str("dir", entry.SourcePath).Msg("跳过位于源目录内的目标目录")
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := r.walkDir(ctx, entry.SourcePath, entry.DestPath); err != nil {
					mu.Lock()
					errs = multierr.Append(errs, err)
					mu.Unlock()
					r.cancel()
				}
			}()

		case ClassImage:
			inputSize := info.Size()
			wg.Add(1)
			if err := r.pool.Submit(func() {
				defer wg.Done()
				r.process(ctx, entry, inputSize)
			}); err != nil {
				wg.Done()
				r.fail(entry, fmt.Errorf("提交任务失败: %w", err))
			}

		case ClassPlaceholder:
			r.skipped.Add(1)
			r.emit(Event{Type: EventSkipped, Entry: entry})

		default:
			r.unsupported.Add(1)
			r.log.Warn().
				Str("event", "unsupported").
				Str("file", entry.SourcePath).
				Msgf("无法处理不支持的文件: %s", entry.Name)
			r.emit(Event{Type: EventUnsupported, Entry: entry})
		}
	}

	wg.Wait()
	return errs
}

// process 转换单个文件，任何失败都限制在该文件内
func (r *run) process(ctx context.Context, entry Entry, inputSize int64) {
	defer func() {
		if p := recover(); p != nil {
			r.fail(entry, fmt.Errorf("转换过程 panic: %v", p))
		}
	}()

	res, err := r.w.transform.Apply(ctx, entry.SourcePath, entry.DestPath)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			r.canceled.Add(1)
			r.log.Debug().Str("source", entry.SourcePath).Msg("运行已取消，跳过文件")
			return
		}
		r.fail(entry, err)
		return
	}

	r.stats.Add(inputSize, res.OutputSize)
	r.converted.Add(1)

	r.log.Info().
		Str("event", "converted").
		Str("source", entry.SourcePath).
		Str("output", res.OutputPath).
		Int64("input_bytes", inputSize).
		Int64("output_bytes", res.OutputSize).
		Str("checksum", fmt.Sprintf("%016x", res.Checksum)).
		Msgf("已转换: %s → %s (%s → %s)", entry.SourcePath, res.OutputPath,
			FormatBytes(inputSize), FormatBytes(res.OutputSize))

	r.emit(Event{Type: EventConverted, Entry: entry, Result: res, InputSize: inputSize})
}

func (r *run) fail(entry Entry, err error) {
	r.failed.Add(1)
	r.log.Error().
		Err(err).
		Str("event", "failed").
		Str("source", entry.SourcePath).
		Msgf("转换失败: %s", entry.SourcePath)
	r.emit(Event{Type: EventFailed, Entry: entry, Err: err})
}

func (r *run) emit(ev Event) {
	if r.w.opts.Observer != nil {
		r.w.opts.Observer(ev)
	}
}

func (r *run) outcome(runID string, elapsed time.Duration) *Outcome {
	mean, ok := r.stats.MeanOutputMB()
	input, output := r.stats.Totals()

	return &Outcome{
		RunID:        runID,
		Operation:    r.w.transform.Name(),
		Directories:  int(r.directories.Load()),
		Converted:    int(r.converted.Load()),
		Failed:       int(r.failed.Load()),
		Unsupported:  int(r.unsupported.Load()),
		Skipped:      int(r.skipped.Load()),
		Canceled:     int(r.canceled.Load()),
		InputBytes:   input,
		OutputBytes:  output,
		MeanOutputMB: mean,
		HasMean:      ok,
		Duration:     elapsed,
	}
}

func (r *run) logSummary(o *Outcome, err error) {
	event := r.log.Info()
	if err != nil {
		event = r.log.Error().Err(err)
	}

	event = event.
		Str("event", "summary").
		Int("directories", o.Directories).
		Int("converted", o.Converted).
		Int("failed", o.Failed).
		Int("unsupported", o.Unsupported).
		Int("skipped", o.Skipped).
		Dur("duration", o.Duration)

	if o.HasMean {
		event.Float64("mean_output_mb", o.MeanOutputMB).Msgf("处理完成，平均输出大小: %.2f MB", o.MeanOutputMB)
	} else {
		event.Bool("no_data", true).Msg("处理完成，平均输出大小: no data")
	}
}

// classify 按目录、图片、占位文件、不支持的顺序分类
func (w *Walker) classify(srcDir, destDir string, info os.FileInfo) Entry {
	name := info.Name()
	entry := Entry{
		Name:       name,
		Type:       typeOf(info),
		SourcePath: filepath.Join(srcDir, name),
		DestPath:   filepath.Join(destDir, name),
	}

	switch {
	case entry.Type == TypeDirectory:
		entry.Class = ClassDirectory
	case entry.Type == TypeRegular && w.opts.Match(name):
		entry.Class = ClassImage
	case w.placeholders[name]:
		entry.Class = ClassPlaceholder
	default:
		entry.Class = ClassUnsupported
	}

	return entry
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
