package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/moyu-x/image-mirror/internal/app"
	"github.com/moyu-x/image-mirror/pkg/walker"
)

type State int

const (
	StateCounting State = iota
	StateProcessing
	StateComplete
)

// counters 处理过程中的实时计数
type counters struct {
	converted   int
	failed      int
	unsupported int
	skipped     int
	inputBytes  int64
	outputBytes int64
}

type model struct {
	ctx    context.Context
	cancel context.CancelFunc
	opts   *app.ConvertOptions

	state       State
	totalImages int
	counts      counters
	currentFile string
	lastFailure string
	startTime   time.Time
	outcome     *walker.Outcome
	canceling   bool

	progressBar progress.Model
	spinner     spinner.Model
	err         error

	// 用于测试替换实际的转换流程
	count   func(opts *app.ConvertOptions) (int, error)
	convert func(ctx context.Context, opts *app.ConvertOptions) (*walker.Outcome, error)
}

func newModel(ctx context.Context, cancel context.CancelFunc, opts *app.ConvertOptions) *model {
	progressBar := progress.New(progress.WithDefaultGradient())
	progressBar.PercentageStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Width(4)

	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		FPS:    time.Second / 10,
	}
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return &model{
		ctx:         ctx,
		cancel:      cancel,
		opts:        opts,
		state:       StateCounting,
		progressBar: progressBar,
		spinner:     s,
		count:       app.CountImages,
		convert:     app.RunConvert,
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.countImagesCmd())
}

// processed 已完成转换（成功或失败）的图片数
func (m *model) processed() int {
	return m.counts.converted + m.counts.failed
}
