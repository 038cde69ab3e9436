package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"fiximg/internal/codec"
	"fiximg/internal/placement"
	"fiximg/internal/processor"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestFormatBytes(t *testing.T) {
	tests := map[int64]string{
		0:       "0 B",
		1023:    "1023 B",
		1024:    "1.0 KiB",
		1536:    "1.5 KiB",
		5 << 20: "5.0 MiB",
		-2048:   "-2.0 KiB",
		3 << 30: "3.0 GiB",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatBytes(in), "FormatBytes(%d)", in)
	}
}

func TestRenderSummaryAligns(t *testing.T) {
	out := RenderSummary([]SummaryRow{
		{Label: "Files processed", Value: "3"},
		{Label: "Space saved", Value: "1.0 KiB"},
	})
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, lines[0], lines[3])
	assert.Equal(t, "Files processed | 3      ", lines[1])
	assert.Equal(t, "Space saved     | 1.0 KiB", lines[2])
}

func TestRenderFailures(t *testing.T) {
	out := RenderFailures([]processor.Outcome{
		{Path: "/in/bad.png", Err: &codec.Error{Format: "png", Err: errors.New("bad CRC in IDAT chunk")}},
		{Path: "/in/a_copy.png", Err: &placement.CollisionError{Path: "/out/d.png"}},
	})
	assert.Equal(t,
		"/in/bad.png: png codec: bad CRC in IDAT chunk\n"+
			"/in/a_copy.png: destination already exists: /out/d.png",
		out)
}

func TestSummaryRows(t *testing.T) {
	r := processor.Report{Outcomes: []processor.Outcome{
		{InputBytes: 2048, OutputBytes: 1024},
		{Err: &placement.CollisionError{Path: "x"}},
		{Err: errors.New("boom")},
	}}
	rows := SummaryRows(r)
	values := map[string]string{}
	for _, row := range rows {
		values[row.Label] = row.Value
	}
	assert.Equal(t, "3", values["Files processed"])
	assert.Equal(t, "1", values["Optimized"])
	assert.Equal(t, "1", values["Duplicates rejected"])
	assert.Equal(t, "1", values["Failed"])
	assert.Equal(t, "1.0 KiB", values["Space saved"])
}

func TestModelCountsUpdates(t *testing.T) {
	updates := make(chan processor.ProgressUpdate)
	var m Model = NewModel(updates)

	next, _ := m.Update(updateMsg{TotalDelta: 2})
	next, _ = next.Update(updateMsg{ProcessedDelta: 1, BytesSavedDelta: 10})
	next, _ = next.Update(updateMsg{ProcessedDelta: 1, ErrorDelta: 1, CollisionDelta: 1})

	got := next.(Model)
	assert.Equal(t, 2, got.total)
	assert.Equal(t, 2, got.processed)
	assert.Equal(t, 1, got.failed)
	assert.Equal(t, 1, got.collisions)
	assert.Equal(t, int64(10), got.bytesSaved)
	assert.Contains(t, got.View(), "Files: 2/2")

	done, cmd := got.Update(doneMsg{})
	assert.NotNil(t, cmd)
	assert.Empty(t, done.View())
}

func TestRenderBar(t *testing.T) {
	assert.Equal(t, "[          ]", renderBar(10, 0))
	assert.Equal(t, "[=====     ]", renderBar(10, 0.5))
	assert.Equal(t, "[==========]", renderBar(10, 1.5))
}
