package walker

import (
	"bytes"
	"fmt"
	"sync"
	"time"
)

const bytesPerMB = 1024 * 1024

// Stats 单次运行的统计累加器，只由一次 Walk 调用持有
type Stats struct {
	mu          sync.Mutex
	count       int
	inputBytes  int64
	outputBytes int64
}

// Add 记录一次成功的转换
func (s *Stats) Add(inputSize, outputSize int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count++
	s.inputBytes += inputSize
	s.outputBytes += outputSize
}

// Count 成功转换数
func (s *Stats) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// MeanOutputMB 平均输出大小（MB）；没有成功转换时 ok 为 false
func (s *Stats) MeanOutputMB() (mean float64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.count == 0 {
		return 0, false
	}
	return float64(s.outputBytes) / bytesPerMB / float64(s.count), true
}

// Totals 输入和输出的总字节数
func (s *Stats) Totals() (input, output int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inputBytes, s.outputBytes
}

// Outcome 一次运行的结果，供调用方决定退出码
type Outcome struct {
	RunID        string
	Operation    string
	Directories  int
	Converted    int
	Failed       int
	Unsupported  int
	Skipped      int
	Canceled     int
	InputBytes   int64
	OutputBytes  int64
	MeanOutputMB float64
	HasMean      bool
	Duration     time.Duration
}

// MeanString 平均输出大小的文字形式，没有数据时返回 "no data"
func (o *Outcome) MeanString() string {
	if !o.HasMean {
		return "no data"
	}
	return fmt.Sprintf("%.2f MB", o.MeanOutputMB)
}

// OK 没有任何文件失败
func (o *Outcome) OK() bool {
	return o.Failed == 0
}

func (o *Outcome) String() string {
	var buf bytes.Buffer

	buf.WriteString("========== 转换统计 ==========\n")
	buf.WriteString(fmt.Sprintf("操作: %s\n", o.Operation))
	buf.WriteString(fmt.Sprintf("目录数: %d\n", o.Directories))
	buf.WriteString(fmt.Sprintf("已转换: %d\n", o.Converted))
	buf.WriteString(fmt.Sprintf("失败: %d\n", o.Failed))
	buf.WriteString(fmt.Sprintf("不支持: %d\n", o.Unsupported))
	buf.WriteString(fmt.Sprintf("已跳过: %d\n", o.Skipped))
	if o.Canceled > 0 {
		buf.WriteString(fmt.Sprintf("已取消: %d\n", o.Canceled))
	}
	buf.WriteString(fmt.Sprintf("输入大小: %s\n", FormatBytes(o.InputBytes)))
	buf.WriteString(fmt.Sprintf("输出大小: %s\n", FormatBytes(o.OutputBytes)))
	buf.WriteString(fmt.Sprintf("平均输出大小: %s\n", o.MeanString()))
	buf.WriteString(fmt.Sprintf("总耗时: %v\n", o.Duration.Round(time.Millisecond)))
	buf.WriteString("============================")

	return buf.String()
}

// FormatBytes 以 1024 为单位格式化字节数
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
