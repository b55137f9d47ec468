package walker

import (
	"os"

	"github.com/moyu-x/image-mirror/pkg/transform"
)

// EntryType 文件系统节点类型
type EntryType int

const (
	TypeOther EntryType = iota
	TypeDirectory
	TypeRegular
)

// Class 条目分类结果
type Class int

const (
	ClassUnsupported Class = iota
	ClassDirectory
	ClassImage
	ClassPlaceholder
)

func (c Class) String() string {
	switch c {
	case ClassDirectory:
		return "directory"
	case ClassImage:
		return "image"
	case ClassPlaceholder:
		return "placeholder"
	default:
		return "unsupported"
	}
}

// Entry 遍历时遇到的条目，只在处理期间存在
type Entry struct {
	Name       string
	Type       EntryType
	Class      Class
	SourcePath string
	DestPath   string
}

func typeOf(info os.FileInfo) EntryType {
	switch {
	case info.IsDir():
		return TypeDirectory
	case info.Mode().IsRegular():
		return TypeRegular
	default:
		return TypeOther
	}
}

// EventType 处理事件类型
type EventType int

const (
	EventConverted EventType = iota
	EventFailed
	EventUnsupported
	EventSkipped
)

// Event 单个条目的处理结果
type Event struct {
	Type      EventType
	Entry     Entry
	Result    transform.Result
	InputSize int64
	Err       error
}
