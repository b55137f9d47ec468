// Package tui 转换过程的终端进度界面
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/moyu-x/image-mirror/internal/app"
	"github.com/moyu-x/image-mirror/pkg/logger"
	"github.com/moyu-x/image-mirror/pkg/walker"
)

// Run 在终端界面中执行转换，返回与 app.RunConvert 相同的结果
func Run(ctx context.Context, opts *app.ConvertOptions) (*walker.Outcome, error) {
	logger.Get().Info().Msg("启动 TUI 界面")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newModel(ctx, cancel, opts)
	p := tea.NewProgram(m, tea.WithAltScreen())

	opts.Observer = func(ev walker.Event) {
		p.Send(entryMsg{event: ev})
	}

	final, err := p.Run()
	if err != nil {
		logger.Get().Error().Err(err).Msg("TUI 运行错误")
		return nil, err
	}
	logger.Get().Info().Msg("TUI 正常退出")

	fm, ok := final.(*model)
	if !ok || fm.state != StateComplete {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.New("界面在转换完成前退出")
	}

	return fm.outcome, fm.err
}
