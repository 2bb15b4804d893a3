// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/csv"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aclements/dexplot/internal/charts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
)

const testData = "../internal/dex/testdata/creatures.csv"

type result struct {
	out, log string
	err      error
}

// run executes dexplot with args against the test data, writing
// charts to dir.
func run(t *testing.T, dir string, args ...string) result {
	t.Helper()
	var out, log bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&log)
	cmd.SetArgs(append([]string{"--data", testData, "--out-dir", dir, "--style", "csv"}, args...))
	err := cmd.Execute()
	return result{out.String(), log.String(), err}
}

// records parses CSV output into a header and rows.
func records(t *testing.T, s string) ([]string, [][]string) {
	t.Helper()
	recs, err := csv.NewReader(strings.NewReader(s)).ReadAll()
	require.NoError(t, err, "output:\n%s", s)
	require.NotEmpty(t, recs)
	return recs[0], recs[1:]
}

func TestGolden(t *testing.T) {
	ar, err := txtar.ParseFile("testdata/golden.txtar")
	require.NoError(t, err)
	files := make(map[string]string)
	var names []string
	for _, f := range ar.Files {
		files[f.Name] = string(f.Data)
		if name, ok := strings.CutSuffix(f.Name, ".args"); ok {
			names = append(names, name)
		}
	}
	require.NotEmpty(t, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			want, ok := files[name+".want"]
			require.True(t, ok, "no %s.want", name)
			args := strings.Split(strings.TrimSpace(files[name+".args"]), "\n")
			r := run(t, t.TempDir(), args...)
			require.NoError(t, r.err)
			assert.Equal(t, strings.TrimSpace(want), strings.TrimSpace(r.out))
		})
	}
}

func TestVersion(t *testing.T) {
	r := run(t, t.TempDir(), "version")
	require.NoError(t, r.err)
	assert.Equal(t, "dexplot devel\n", r.out)
}

func TestHead(t *testing.T) {
	r := run(t, t.TempDir(), "head", "-n", "3")
	require.NoError(t, r.err)
	header, rows := records(t, r.out)
	assert.Contains(t, header, "Type 2")
	require.Len(t, rows, 3)
	assert.Equal(t, "Bulbasaur", rows[0][0])
}

func TestSelectFilter(t *testing.T) {
	r := run(t, t.TempDir(), "select", "Name", "Attack")
	require.NoError(t, r.err)
	header, _ := records(t, r.out)
	assert.Equal(t, []string{"Name", "Attack"}, header)

	r = run(t, t.TempDir(), "filter", "Attack > 100", "'Type 1' == Psychic")
	require.NoError(t, r.err)
	header, rows := records(t, r.out)
	name := indexOf(header, "Name")
	require.GreaterOrEqual(t, name, 0)
	var names []string
	for _, row := range rows {
		names = append(names, row[name])
	}
	assert.Contains(t, names, "Mewtwo")

	r = run(t, t.TempDir(), "filter", "Attack ~ 1")
	assert.Error(t, r.err)
}

func TestTotal(t *testing.T) {
	r := run(t, t.TempDir(), "total", "-n", "1")
	require.NoError(t, r.err)
	header, rows := records(t, r.out)
	assert.Equal(t, []string{"Name", "Type 1", "Type 2", "Total"}, header)
	require.Len(t, rows, 1)
	assert.Equal(t, "Mewtwo", rows[0][0])
}

func TestSummaryAndCount(t *testing.T) {
	r := run(t, t.TempDir(), "summary", "Attack", "--by", "Generation")
	require.NoError(t, r.err)
	header, rows := records(t, r.out)
	assert.Equal(t, "Generation", header[0])
	assert.Contains(t, header, "mean Attack")
	assert.NotEmpty(t, rows)

	r = run(t, t.TempDir(), "count", "Legendary")
	require.NoError(t, r.err)
	header, rows = records(t, r.out)
	assert.Equal(t, []string{"Legendary", "n"}, header)
	assert.Len(t, rows, 2)
}

func TestLongerAndFit(t *testing.T) {
	r := run(t, t.TempDir(), "longer", "HP", "Speed")
	require.NoError(t, r.err)
	header, rows := records(t, r.out)
	assert.Equal(t, []string{"Name", "stat", "value"}, header)
	assert.Len(t, rows, 2*49)

	r = run(t, t.TempDir(), "fit")
	require.NoError(t, r.err)
	header, _ = records(t, r.out)
	assert.Equal(t, "Generation", header[0])
	assert.Contains(t, header, "slope")
}

func TestUnknownColumn(t *testing.T) {
	r := run(t, t.TempDir(), "select", "Nope")
	assert.ErrorContains(t, r.err, "Nope")
}

func TestBadConfig(t *testing.T) {
	r := run(t, t.TempDir(), "--jobs", "0", "head")
	assert.ErrorContains(t, r.err, "jobs")

	r = run(t, t.TempDir(), "--config", filepath.Join(t.TempDir(), "none.yaml"), "head")
	assert.Error(t, r.err)
}

func TestCharts(t *testing.T) {
	r := run(t, t.TempDir(), "charts")
	require.NoError(t, r.err)
	assert.Equal(t, strings.Join(charts.Names(), "\n")+"\n", r.out)
}

func TestPlot(t *testing.T) {
	dir := t.TempDir()
	r := run(t, dir, "plot", "scatter", "box")
	require.NoError(t, r.err)
	for _, name := range []string{"scatter.svg", "box.svg"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
	assert.Contains(t, r.log, "wrote chart")

	path := filepath.Join(dir, "bar.png")
	r = run(t, dir, "--width", "3", "--height", "2", "--dpi", "50", "plot", "bar", "-o", path)
	require.NoError(t, r.err)
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 150, cfg.Width)
	assert.Equal(t, 100, cfg.Height)

	// Charts of the derived Total column work with -o.
	svg := filepath.Join(dir, "d.svg")
	r = run(t, dir, "plot", "density", "-o", svg)
	require.NoError(t, r.err)
	data, err := os.ReadFile(svg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")

	r = run(t, dir, "plot", "scatter", "box", "-o", path)
	assert.Error(t, r.err)
	r = run(t, dir, "plot", "pie")
	assert.ErrorContains(t, r.err, "pie")
}

func TestWalk(t *testing.T) {
	dir := t.TempDir()
	r := run(t, dir, "--style", "plain", "-v", "walk")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "## First rows")
	assert.Contains(t, r.out, "## Defense against attack by generation")
	for _, name := range charts.Names() {
		_, err := os.Stat(filepath.Join(dir, name+".svg"))
		assert.NoError(t, err, name)
	}
	assert.Contains(t, r.log, `"level":"debug"`)
	assert.Contains(t, r.log, "walk complete")
}

func indexOf(xs []string, x string) int {
	for i, v := range xs {
		if v == x {
			return i
		}
	}
	return -1
}
