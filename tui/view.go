package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/moyu-x/image-mirror/pkg/walker"
)

func (m *model) View() string {
	switch m.state {
	case StateCounting:
		return m.countingView()
	case StateProcessing:
		return m.processingView()
	case StateComplete:
		return m.completeView()
	default:
		return "未知状态"
	}
}

func (m *model) countingView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🔍 正在统计图片数量...") + "\n\n")
	b.WriteString(m.spinner.View() + " 正在遍历: " + m.opts.SourceDir + "\n")

	return lipgloss.NewStyle().
		Padding(2).
		Render(b.String())
}

func (m *model) processingView() string {
	var b strings.Builder

	title := fmt.Sprintf("🔄 正在%s: %s → %s", operationLabel(string(m.opts.Operation)), m.opts.SourceDir, m.opts.DestDir)
	if m.canceling {
		title = "⏹ 正在取消，等待进行中的文件完成..."
	}
	b.WriteString(titleStyle.Render(title) + "\n\n")

	b.WriteString(labelStyle.Render("处理进度：") + "\n")
	b.WriteString(m.spinner.View() + " " + m.progressBar.View() + "\n\n")

	b.WriteString(statsBoxStyle.Render(m.renderStats()) + "\n\n")

	b.WriteString(labelStyle.Render("当前文件：") + "\n")
	b.WriteString(filePathStyle.Render(m.currentFile) + "\n\n")

	if m.lastFailure != "" {
		b.WriteString(errorStyle.Render("最近失败: "+m.lastFailure) + "\n\n")
	}

	b.WriteString(hintStyle.Render("Ctrl+C 取消") + "\n")

	return lipgloss.NewStyle().
		Padding(2).
		Render(b.String())
}

func (m *model) completeView() string {
	var b strings.Builder

	switch {
	case m.err != nil:
		b.WriteString(warningTitleStyle.Render("❌ 运行终止") + "\n\n")
		b.WriteString(errorStyle.Render(m.err.Error()) + "\n\n")
	case m.outcome != nil && !m.outcome.OK():
		b.WriteString(warningTitleStyle.Render("⚠️ 处理完成，部分文件失败") + "\n\n")
	default:
		b.WriteString(successTitleStyle.Render("✅ 处理完成！") + "\n\n")
	}

	if m.outcome != nil {
		b.WriteString(statsBoxStyle.Render(renderFinalStats(m.outcome)) + "\n\n")
	}

	b.WriteString(separatorStyle.Render(strings.Repeat("─", 60)) + "\n")
	b.WriteString(hintStyle.Render("按任意键退出") + "\n")

	return lipgloss.NewStyle().
		Padding(2).
		Render(b.String())
}

func (m *model) renderStats() string {
	var b strings.Builder
	b.WriteString("📊 实时统计：\n\n")
	b.WriteString(fmt.Sprintf("  图片总数：    %d\n", m.totalImages))
	b.WriteString(fmt.Sprintf("  已处理：      %d / %d\n", m.processed(), m.totalImages))
	b.WriteString(fmt.Sprintf("  已转换：      %d\n", m.counts.converted))
	b.WriteString(fmt.Sprintf("  失败：        %d\n", m.counts.failed))
	b.WriteString(fmt.Sprintf("  不支持：      %d\n", m.counts.unsupported))
	b.WriteString(fmt.Sprintf("  输入大小：    %s\n", walker.FormatBytes(m.counts.inputBytes)))
	b.WriteString(fmt.Sprintf("  输出大小：    %s\n", walker.FormatBytes(m.counts.outputBytes)))
	return b.String()
}

func renderFinalStats(o *walker.Outcome) string {
	var b strings.Builder
	b.WriteString("📊 最终统计：\n\n")
	b.WriteString(fmt.Sprintf("  • 目录数：       %d 个\n", o.Directories))
	b.WriteString(fmt.Sprintf("  • 已转换：       %d 个\n", o.Converted))
	b.WriteString(fmt.Sprintf("  • 失败：         %d 个\n", o.Failed))
	b.WriteString(fmt.Sprintf("  • 不支持：       %d 个\n", o.Unsupported))
	b.WriteString(fmt.Sprintf("  • 输出大小：     %s\n", walker.FormatBytes(o.OutputBytes)))
	b.WriteString(fmt.Sprintf("  • 平均输出大小： %s\n", o.MeanString()))
	b.WriteString(fmt.Sprintf("  • 总耗时：       %s\n", o.Duration.String()))
	return b.String()
}

func operationLabel(op string) string {
	switch op {
	case "reformat":
		return "转换格式"
	case "recompress":
		return "重新压缩"
	default:
		return op
	}
}
