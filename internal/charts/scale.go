// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package charts

import (
	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"
)

// categoryScale is a linear scale over level indexes 0..n-1 whose
// ticks are the levels themselves, labeled with the level names.
//
// gg's ordinal scale cannot place rectangles between levels, so
// categorical axes are drawn on numeric positions and relabeled.
type categoryScale struct {
	gg.ContinuousScaler
	names []string
}

func newCategoryScale(names []string) *categoryScale {
	s := gg.NewLinearScaler().SetMin(-0.6).SetMax(float64(len(names)) - 0.4)
	return &categoryScale{s, names}
}

func (s *categoryScale) Ticks(max int, pred func(major []float64, labels []string) bool) (major, minor table.Slice, labels []string) {
	// Thin out labels until they fit.
	for step := 1; ; step++ {
		var m []float64
		var l []string
		for i := 0; i < len(s.names); i += step {
			m = append(m, float64(i))
			l = append(l, s.names[i])
		}
		fits := (max <= 0 || len(m) <= max) && (pred == nil || pred(m, l))
		if fits || step >= len(s.names) {
			return m, []float64{}, l
		}
	}
}

func (s *categoryScale) CloneScaler() gg.Scaler {
	return &categoryScale{s.ContinuousScaler.CloneScaler().(gg.ContinuousScaler), s.names}
}
