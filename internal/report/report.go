// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report prints go-gg tables to the console.
package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"reflect"
	"strconv"

	"github.com/aclements/go-gg/table"
	pretty "github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Style selects how tables are printed.
type Style string

const (
	// Auto uses Box on a terminal and Plain otherwise.
	Auto Style = "auto"
	// Plain is go-gg's aligned column layout.
	Plain    Style = "plain"
	Box      Style = "box"
	Markdown Style = "markdown"
	CSV      Style = "csv"
	YAML     Style = "yaml"
)

// Styles lists the valid styles.
var Styles = []Style{Auto, Plain, Box, Markdown, CSV, YAML}

// ParseStyle returns the Style named s.
func ParseStyle(s string) (Style, error) {
	for _, st := range Styles {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown table style %q", s)
}

// resolve replaces Auto with a concrete style for w.
func (s Style) resolve(w io.Writer) Style {
	if s != Auto && s != "" {
		return s
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return Box
	}
	return Plain
}

// Print writes g to w in the given style.
func Print(w io.Writer, g table.Grouping, style Style) error {
	if g == nil || len(g.Columns()) == 0 {
		return nil
	}
	switch style.resolve(w) {
	case Plain:
		table.Fprint(w, g, formats(g)...)
		return nil
	case Box, Markdown, CSV:
		return printPretty(w, g, style.resolve(w))
	case YAML:
		return printYAML(w, g)
	}
	return fmt.Errorf("unknown table style %q", style)
}

// formats returns table.Fprint verbs for each column of g.
func formats(g table.Grouping) []string {
	fs := make([]string, len(g.Columns()))
	for i, col := range g.Columns() {
		fs[i] = "%v"
		if k := table.ColType(g, col).Elem().Kind(); k == reflect.Float64 || k == reflect.Float32 {
			fs[i] = "%.2f"
		}
	}
	return fs
}

// cell formats a single value for the pretty and YAML writers.
func cell(v interface{}) string {
	switch v := v.(type) {
	case float64:
		switch {
		case math.IsNaN(v):
			return "NA"
		case v == math.Trunc(v) && math.Abs(v) < 1e15:
			return strconv.FormatFloat(v, 'f', 0, 64)
		}
		return strconv.FormatFloat(v, 'f', 2, 64)
	case float32:
		return cell(float64(v))
	}
	return fmt.Sprint(v)
}

// rows calls f with the formatted cells of each row of each group.
func rows(g table.Grouping, f func(gid table.GroupID, row []interface{})) {
	cols := g.Columns()
	for _, gid := range g.Tables() {
		t := g.Table(gid)
		vals := make([]reflect.Value, len(cols))
		for i, col := range cols {
			vals[i] = reflect.ValueOf(t.MustColumn(col))
		}
		for r := 0; r < t.Len(); r++ {
			row := make([]interface{}, len(cols))
			for i := range cols {
				row[i] = vals[i].Index(r).Interface()
			}
			f(gid, row)
		}
	}
}

func printPretty(w io.Writer, g table.Grouping, style Style) error {
	tw := pretty.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(pretty.StyleLight)

	header := pretty.Row{}
	for _, col := range g.Columns() {
		header = append(header, col)
	}
	tw.AppendHeader(header)

	var last table.GroupID
	first := true
	rows(g, func(gid table.GroupID, row []interface{}) {
		if !first && gid != last {
			tw.AppendSeparator()
		}
		first, last = false, gid
		prow := make(pretty.Row, len(row))
		for i, v := range row {
			prow[i] = cell(v)
		}
		tw.AppendRow(prow)
	})

	switch style {
	case Markdown:
		tw.RenderMarkdown()
	case CSV:
		tw.RenderCSV()
	default:
		tw.Render()
	}
	return nil
}

// printYAML writes g as a sequence of mappings, one per row, keeping
// column order.
func printYAML(w io.Writer, g table.Grouping) error {
	doc := &yaml.Node{Kind: yaml.SequenceNode}
	cols := g.Columns()
	rows(g, func(_ table.GroupID, row []interface{}) {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for i, v := range row {
			val := &yaml.Node{Kind: yaml.ScalarNode, Value: cell(v)}
			switch v.(type) {
			case string:
				val.Tag = "!!str"
			}
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: cols[i]},
				val)
		}
		doc.Content = append(doc.Content, m)
	})
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
