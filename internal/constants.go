package internal

import "github.com/moyu-x/image-mirror/pkg/transform"

const (
	// 默认目标格式
	DefaultTarget = "webp"

	// 默认编码质量
	DefaultQuality = transform.DefaultQuality

	// 默认压缩力度
	DefaultEffort = transform.DefaultEffort

	// 环境变量前缀
	EnvPrefix = "IMAGE_MIRROR"
)
