// Package codec 定义图片编解码协作者，像素级的工作全部在这里完成。
package codec

import (
	"context"
	"errors"
	"image"

	"github.com/moyu-x/image-mirror/pkg/format"
)

var (
	// ErrDecode 源文件无法解码（损坏或格式不可读）
	ErrDecode = errors.New("decode failed")

	// ErrEncode 编码或写出失败
	ErrEncode = errors.New("encode failed")
)

// Options 编码参数
type Options struct {
	Quality int // 1-100，对有损格式生效
	Effort  int // 0-10，越大越慢、体积越小；WebP 映射为 method 0-6，AVIF 映射为 speed 10-effort
}

// Output 写出结果
type Output struct {
	Size     int64  // 输出文件字节数
	Checksum uint64 // 输出内容的 xxHash
}

// Codec 图片编解码能力
type Codec interface {
	// Decode 读取并解码 path 指向的图片
	Decode(ctx context.Context, path string) (image.Image, error)
	// Resize 等比缩小到 maxWidth x maxHeight 以内，不放大；0 表示该方向不限
	Resize(img image.Image, maxWidth, maxHeight int) image.Image
	// Encode 按 f 编码写入 path，已存在的文件会被覆盖
	Encode(ctx context.Context, img image.Image, path string, f format.Format, opts Options) (Output, error)
}
