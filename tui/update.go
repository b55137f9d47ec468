package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/moyu-x/image-mirror/pkg/logger"
	"github.com/moyu-x/image-mirror/pkg/walker"
)

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.progressBar.Width = msg.Width - 10

	case countImagesMsg:
		m.totalImages = msg.total
		m.state = StateProcessing
		m.startTime = time.Now()
		logger.Get().Info().Msgf("共找到 %d 个图片，开始转换", msg.total)
		return m, m.convertCmd()

	case entryMsg:
		m.applyEvent(msg.event)
		if m.totalImages > 0 {
			percent := float64(m.processed()) / float64(m.totalImages)
			cmds = append(cmds, m.progressBar.SetPercent(percent))
		}
		return m, tea.Batch(cmds...)

	case convertCompleteMsg:
		m.state = StateComplete
		m.outcome = msg.outcome
		m.err = msg.err
		return m, m.progressBar.SetPercent(1)

	case errMsg:
		m.err = msg
		m.state = StateComplete
		return m, nil

	case spinner.TickMsg:
		if m.state != StateComplete {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	model, cmd := m.progressBar.Update(msg)
	m.progressBar = model.(progress.Model)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKey Ctrl+C 在处理中取消运行并等待收尾，完成后任意键退出
func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state == StateComplete {
		return m, tea.Quit
	}

	if msg.String() == "ctrl+c" || msg.String() == "q" {
		if m.state == StateCounting {
			m.cancel()
			return m, tea.Quit
		}
		if !m.canceling {
			logger.Get().Warn().Msg("用户取消，等待进行中的文件完成")
			m.canceling = true
			m.cancel()
		}
	}

	return m, nil
}

func (m *model) applyEvent(ev walker.Event) {
	switch ev.Type {
	case walker.EventConverted:
		m.counts.converted++
		m.counts.inputBytes += ev.InputSize
		m.counts.outputBytes += ev.Result.OutputSize
		m.currentFile = ev.Entry.SourcePath
	case walker.EventFailed:
		m.counts.failed++
		m.currentFile = ev.Entry.SourcePath
		if ev.Err != nil {
			m.lastFailure = ev.Entry.Name + ": " + ev.Err.Error()
		}
	case walker.EventUnsupported:
		m.counts.unsupported++
	case walker.EventSkipped:
		m.counts.skipped++
	}
}

func (m *model) countImagesCmd() tea.Cmd {
	return func() tea.Msg {
		total, err := m.count(m.opts)
		if err != nil {
			return errMsg(err)
		}
		return countImagesMsg{total: total}
	}
}

func (m *model) convertCmd() tea.Cmd {
	return func() tea.Msg {
		outcome, err := m.convert(m.ctx, m.opts)
		return convertCompleteMsg{outcome: outcome, err: err}
	}
}
