package tui

import (
	"github.com/moyu-x/image-mirror/pkg/walker"
)

type countImagesMsg struct {
	total int
}

// entryMsg 遍历器回调的单个条目事件
type entryMsg struct {
	event walker.Event
}

type convertCompleteMsg struct {
	outcome *walker.Outcome
	err     error
}

type errMsg error
