package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(mode OutputMode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestMode(t *testing.T) {
	assert.Equal(t, ModeText, Mode("text"))
	assert.Equal(t, ModeMarkdown, Mode("markdown"))
	assert.Equal(t, ModeJSON, Mode("json"))
	assert.Equal(t, ModeAuto, Mode("auto"))
	assert.Equal(t, ModeAuto, Mode(""))
	assert.Equal(t, ModeAuto, Mode("yaml"))
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		mode  OutputMode
		isTTY bool
		want  OutputMode
	}{
		{ModeAuto, true, ModeText},
		{ModeAuto, false, ModeMarkdown},
		{ModeJSON, true, ModeJSON},
		{ModeText, false, ModeText},
		{"", false, ModeMarkdown},
	}

	for _, tt := range tests {
		r, _, _ := newTestRenderer(tt.mode, tt.isTTY)
		assert.Equal(t, tt.want, r.EffectiveMode(), "mode=%q tty=%v", tt.mode, tt.isTTY)
		assert.Equal(t, tt.isTTY, r.IsTTY())
	}
}

func TestNewRenderer_BufferIsNotTTY(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestRenderer_Markdown(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeMarkdown, false)

	r.Header(1, "Worlds")
	r.KeyValue("Namespace", "dev")
	r.StatusLine("gates", "success", "3 tables")
	r.Success("done")
	r.Muted("quiet")
	r.Warning("careful")
	r.Error("broken")

	got := out.String()
	assert.Contains(t, got, "# Worlds")
	assert.Contains(t, got, "- **Namespace**: dev")
	assert.Contains(t, got, "- gates: success (3 tables)")
	assert.Contains(t, got, "**OK** done")
	assert.Contains(t, got, "_quiet_")
	assert.Contains(t, errOut.String(), "**Warning** careful")
	assert.Contains(t, errOut.String(), "**Error** broken")
	assert.NotContains(t, got, "\x1b[")
}

func TestRenderer_Text(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeText, true)
	r.DisableColor()

	r.Header(2, "Tables")
	r.StatusLine("gates", "error", "bad key")
	r.StatusLine("tribes", "pending", "")
	r.Success("materialized")
	r.Error("failed")

	got := out.String()
	assert.Contains(t, got, "Tables")
	assert.Contains(t, got, "✗ gates Error bad key")
	assert.Contains(t, got, "- tribes Pending")
	assert.Contains(t, got, "✓ materialized")
	assert.Contains(t, errOut.String(), "✗ failed")
	assert.NotNil(t, r.Styles())
	assert.Same(t, out, r.Writer())
}

func TestRenderer_Table(t *testing.T) {
	header := []string{"Package", "Tables"}
	rows := [][]string{{"gates", "3"}, {"tribes", "2"}}

	t.Run("markdown", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeMarkdown, false)
		r.Table(header, rows)
		got := out.String()
		assert.Contains(t, got, "| Package | Tables |")
		assert.Contains(t, got, "| gates | 3 |")
	})

	t.Run("text", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeText, true)
		r.Table(header, rows)
		got := out.String()
		assert.Contains(t, got, "PACKAGE")
		assert.Contains(t, got, "tribes")
		assert.Contains(t, got, "┌")
	})
}

func TestRenderer_JSON(t *testing.T) {
	r, out, _ := newTestRenderer(ModeJSON, false)
	require.NoError(t, r.JSON(map[string]any{"identifier": "dev", "written": true}))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "dev", decoded["identifier"])
	assert.Equal(t, true, decoded["written"])
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "## Title", FormatHeader(2, "Title"))
	assert.Equal(t, "# Title", FormatHeader(0, "Title"))
	assert.Equal(t, "- **Key**: value", FormatKeyValue("Key", "value"))

	block := FormatCodeBlock("solidity", "bytes16 x;\n\n")
	assert.True(t, strings.HasPrefix(block, "```solidity\n"))
	assert.True(t, strings.HasSuffix(block, "bytes16 x;\n```"))
}
