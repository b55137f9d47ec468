package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format 图片编码格式
type Format string

const (
	JPEG Format = "jpeg"
	PNG  Format = "png"
	WebP Format = "webp"
	TIFF Format = "tiff"
	AVIF Format = "avif"
	GIF  Format = "gif"
)

// ErrUnsupported 格式不在可编码集合中
var ErrUnsupported = errors.New("unsupported image format")

// supported 可编码格式，顺序固定
var supported = [...]Format{JPEG, PNG, WebP, TIFF, AVIF, GIF}

// aliases 扩展名别名
var aliases = map[string]Format{
	"jpg": JPEG,
}

// decodeOnly 可以解码但不在编码集合中的扩展名，遍历时视为图片
var decodeOnly = map[string]bool{
	"bmp": true,
}

// Supported 返回可编码格式列表的副本
func Supported() []Format {
	out := make([]Format, len(supported))
	copy(out, supported[:])
	return out
}

// Ext 返回带点的扩展名
func (f Format) Ext() string {
	return "." + string(f)
}

// Valid 判断是否在可编码集合中
func (f Format) Valid() bool {
	for _, s := range supported {
		if s == f {
			return true
		}
	}
	return false
}

// Normalize 把扩展名（可带点，大小写不敏感）规范化，jpg 归一为 jpeg
func Normalize(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if f, ok := aliases[ext]; ok {
		return string(f)
	}
	return ext
}

// Parse 将名称解析为可编码格式
func Parse(name string) (Format, error) {
	f := Format(Normalize(name))
	if !f.Valid() {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, Normalize(name))
	}
	return f, nil
}

// Ext 返回带点的扩展名。与 filepath.Ext 不同，只有开头一个点的
// 文件名（如 .jpg）视为没有扩展名
func Ext(path string) string {
	base := filepath.Base(path)
	if strings.LastIndex(base, ".") <= 0 {
		return ""
	}
	return filepath.Ext(base)
}

// FromPath 按文件自身扩展名确定格式
func FromPath(path string) (Format, error) {
	return Parse(Ext(path))
}

// Recognized 判断文件名是否匹配图片扩展名（大小写不敏感，锚定在结尾）。
// 包含别名和仅可解码的扩展名，比 Parse 宽松。
func Recognized(name string) bool {
	ext := filepath.Ext(name)
	if ext == "" {
		return false
	}
	ext = strings.ToLower(ext[1:])
	if _, ok := aliases[ext]; ok {
		return true
	}
	if decodeOnly[ext] {
		return true
	}
	return Format(ext).Valid()
}
