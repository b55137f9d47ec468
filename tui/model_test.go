package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/moyu-x/image-mirror/internal"
	"github.com/moyu-x/image-mirror/internal/app"
	"github.com/moyu-x/image-mirror/pkg/transform"
	"github.com/moyu-x/image-mirror/pkg/walker"
)

func testModel(t *testing.T) (*model, context.Context) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	m := newModel(ctx, cancel, &app.ConvertOptions{
		Operation: internal.OpReformat,
		SourceDir: "/in",
		DestDir:   "/out",
		Target:    "webp",
	})
	m.count = func(*app.ConvertOptions) (int, error) { return 4, nil }
	m.convert = func(ctx context.Context, opts *app.ConvertOptions) (*walker.Outcome, error) {
		return &walker.Outcome{Operation: "reformat", Converted: 3, Failed: 1}, nil
	}
	return m, ctx
}

func TestModel_Flow(t *testing.T) {
	m, _ := testModel(t)

	msg := m.countImagesCmd()()
	if got, ok := msg.(countImagesMsg); !ok || got.total != 4 {
		t.Fatalf("Expected countImagesMsg{4}, got %#v", msg)
	}

	_, cmd := m.Update(msg)
	if m.state != StateProcessing {
		t.Fatalf("Expected processing state, got %d", m.state)
	}
	if cmd == nil {
		t.Fatal("Expected convert command")
	}

	events := []walker.Event{
		{Type: walker.EventConverted, Entry: walker.Entry{Name: "a.jpg", SourcePath: "/in/a.jpg"}, InputSize: 2048, Result: transform.Result{OutputSize: 1024}},
		{Type: walker.EventConverted, Entry: walker.Entry{Name: "b.png", SourcePath: "/in/b.png"}, InputSize: 2048, Result: transform.Result{OutputSize: 1024}},
		{Type: walker.EventFailed, Entry: walker.Entry{Name: "c.jpg", SourcePath: "/in/c.jpg"}, Err: errors.New("decode")},
		{Type: walker.EventUnsupported, Entry: walker.Entry{Name: "x.txt"}},
		{Type: walker.EventSkipped, Entry: walker.Entry{Name: ".gitkeep"}},
	}
	for _, ev := range events {
		m.Update(entryMsg{event: ev})
	}

	if m.processed() != 3 {
		t.Errorf("Expected 3 processed, got %d", m.processed())
	}
	if m.counts.unsupported != 1 || m.counts.skipped != 1 {
		t.Errorf("Unexpected counters: %+v", m.counts)
	}
	if m.counts.outputBytes != 2048 {
		t.Errorf("Expected 2048 output bytes, got %d", m.counts.outputBytes)
	}
	if !strings.Contains(m.lastFailure, "c.jpg") {
		t.Errorf("Expected last failure to name c.jpg, got %q", m.lastFailure)
	}
	if !strings.Contains(m.View(), "3 / 4") {
		t.Error("Expected progress in processing view")
	}

	m.Update(cmd())
	if m.state != StateComplete {
		t.Fatalf("Expected complete state, got %d", m.state)
	}
	if m.outcome == nil || m.outcome.Converted != 3 {
		t.Errorf("Unexpected outcome: %+v", m.outcome)
	}
	if !strings.Contains(m.View(), "部分文件失败") {
		t.Error("Expected partial failure title")
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("Expected quit command after completion")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
}

func TestModel_CancelWhileProcessing(t *testing.T) {
	m, ctx := testModel(t)
	m.Update(countImagesMsg{total: 10})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd != nil {
		t.Error("Cancel during processing should wait for completion instead of quitting")
	}
	if !m.canceling {
		t.Error("Expected canceling flag")
	}
	if ctx.Err() == nil {
		t.Error("Expected run context to be canceled")
	}
}

func TestModel_CountError(t *testing.T) {
	m, _ := testModel(t)
	m.count = func(*app.ConvertOptions) (int, error) { return 0, errors.New("boom") }

	m.Update(m.countImagesCmd()())
	if m.state != StateComplete || m.err == nil {
		t.Errorf("Expected complete state with error, got %d / %v", m.state, m.err)
	}
	if !strings.Contains(m.View(), "boom") {
		t.Error("Expected error in view")
	}
}
