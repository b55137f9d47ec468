// Package scanner 在转换前预扫描源目录，统计待处理的图片数量
package scanner

import (
	"os"

	"github.com/spf13/afero"

	"github.com/moyu-x/image-mirror/pkg/format"
	"github.com/moyu-x/image-mirror/pkg/logger"
)

type ImageScanner struct {
	fs    afero.Fs
	match func(name string) bool
}

// NewImageScanner match 为空时使用 format.Recognized
func NewImageScanner(fs afero.Fs, match func(name string) bool) *ImageScanner {
	if match == nil {
		match = format.Recognized
	}
	return &ImageScanner{fs: fs, match: match}
}

// Walk 遍历 root 下的普通文件，不可读的子目录直接跳过
func (s *ImageScanner) Walk(root string, callback func(path string, info os.FileInfo) error) error {
	return afero.Walk(s.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		return callback(path, info)
	})
}

// CountImages 统计所有根目录下可识别的图片数量
func (s *ImageScanner) CountImages(roots []string) (int, error) {
	logger.Get().Info().Msgf("开始统计图片数量，共 %d 个目录", len(roots))

	count := 0
	for _, root := range roots {
		logger.Get().Debug().Msgf("扫描目录: %s", root)
		err := s.Walk(root, func(path string, info os.FileInfo) error {
			if s.match(info.Name()) {
				count++
			}
			return nil
		})
		if err != nil {
			logger.Get().Error().Err(err).Msgf("扫描目录失败: %s", root)
			return 0, err
		}
	}

	logger.Get().Info().Msgf("图片统计完成，共找到 %d 个图片", count)
	return count, nil
}
