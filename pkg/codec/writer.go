package codec

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/moyu-x/image-mirror/pkg/logger"
)

// countingWriter 统计写入的字节数
type countingWriter struct {
	n int64
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += int64(len(p))
	return len(p), nil
}

// tempPath 与目标文件同目录的临时文件，保证 Rename 不跨卷。
// 同一目标的并发写入各自使用不同的临时文件。
func tempPath(path string) string {
	dir, base := filepath.Split(path)
	return filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", base, uuid.NewString()))
}

// writeAtomic 把 encode 的输出写入临时文件，成功后重命名为 path。
// 失败时删除临时文件，path 上已有的内容保持不变。
func writeAtomic(fs afero.Fs, path string, encode func(w io.Writer) error) (Output, error) {
	tmp := tempPath(path)

	file, err := fs.Create(tmp)
	if err != nil {
		return Output{}, fmt.Errorf("创建临时文件失败: %w", err)
	}

	hash := xxhash.New()
	counter := &countingWriter{}

	if err := encode(io.MultiWriter(file, hash, counter)); err != nil {
		file.Close()
		removeTemp(fs, tmp)
		return Output{}, err
	}

	if err := file.Close(); err != nil {
		removeTemp(fs, tmp)
		return Output{}, fmt.Errorf("关闭临时文件失败: %w", err)
	}

	if err := fs.Rename(tmp, path); err != nil {
		removeTemp(fs, tmp)
		return Output{}, fmt.Errorf("重命名输出文件失败: %w", err)
	}

	return Output{Size: counter.n, Checksum: hash.Sum64()}, nil
}

func removeTemp(fs afero.Fs, tmp string) {
	if err := fs.Remove(tmp); err != nil {
		logger.Get().Debug().Err(err).Str("path", tmp).Msg("删除临时文件失败")
	}
}
