package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ByLCY/cannedtext/canning"
	"github.com/ByLCY/cannedtext/layout"
)

const posterDoc = `canned Poster v1 {
  meta { title: "Poster" }
  page A5 {
    box id headline width 120mm height %s { "Hello ${name}" }
  }
}`

func writeDoc(t *testing.T, path, height string) {
	t.Helper()
	doc := bytes.ReplaceAll([]byte(posterDoc), []byte("%s"), []byte(height))
	require.NoError(t, os.WriteFile(path, doc, 0o644))
}

func readDebug(t *testing.T, path string) layout.Result {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var res layout.Result
	require.NoError(t, json.Unmarshal(raw, &res))
	return res
}

func TestPipelineRendersAndResizes(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "poster.canned")
	output := filepath.Join(dir, "out", "poster.pdf")
	debug := filepath.Join(dir, "out", "layout.json")
	writeDoc(t, input, "60mm")

	p, err := newPipeline(dir, canning.DefaultOptions(), zap.NewNop())
	require.NoError(t, err)
	p.data = `{"name":"Ada"}`

	require.NoError(t, p.run(input, output, debug))
	pdfBytes, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")))

	first := readDebug(t, debug).Pages[0].Boxes[0]
	assert.Equal(t, "Hello Ada", first.Content)
	assert.False(t, first.Fit.Resized)
	assert.True(t, first.Fit.Fits)

	writeDoc(t, input, "30mm")
	require.NoError(t, p.run(input, output, debug))
	second := readDebug(t, debug).Pages[0].Boxes[0]
	assert.True(t, second.Fit.Resized)
	assert.True(t, second.Fit.Fits)
}

func TestPipelineReportsParseErrors(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "broken.canned")
	require.NoError(t, os.WriteFile(input, []byte("document Doc v1 {}"), 0o644))

	p, err := newPipeline(dir, canning.DefaultOptions(), zap.NewNop())
	require.NoError(t, err)
	err = p.run(input, filepath.Join(dir, "out.pdf"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "解析 DSL 失败")
}

func TestLoadData(t *testing.T) {
	data, err := loadData(`{"a":1}`, "")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))

	data, err = loadData("", "")
	require.NoError(t, err)
	assert.Nil(t, data)

	_, err = loadData(`{"a":`, "")
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"b":2}`), 0o644))
	data, err = loadData("", path)
	require.NoError(t, err)
	assert.Equal(t, `{"b":2}`, string(data))
}

func TestFitCommandPrintsReport(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"fit", "HELLO", "--width", "100mm", "--height", "50mm", "--nowrap", "--log-level", "error"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	require.NoError(t, rootCmd.Execute())

	var report fitReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "horizontal", report.Direction)
	assert.True(t, report.Fits)
	assert.Greater(t, report.FontSize, 12)
	assert.Equal(t, []string{"HELLO"}, report.Lines)
	assert.LessOrEqual(t, report.ContentWidth, 100+layout.PtToMm)
}

func TestFitRequestRejectsBadLengths(t *testing.T) {
	saved := fitFlags
	t.Cleanup(func() { fitFlags = saved })

	fitFlags.width, fitFlags.height, fitFlags.size = "wide", "30mm", "12pt"
	_, err := fitRequest("x")
	require.Error(t, err)

	fitFlags.width, fitFlags.size = "40mm", "14"
	req, err := fitRequest(`a\nb`)
	require.NoError(t, err)
	assert.Equal(t, 14, req.FontSize)
	assert.Equal(t, "a\nb", req.Content)
	assert.InDelta(t, 40, req.Width, 1e-9)
}
