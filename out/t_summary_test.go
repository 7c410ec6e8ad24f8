// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"testing"

	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/poro"

	"github.com/cpmech/gosl/chk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// feed sends synthetic reports of three steps to a summary. Steps 2 and 3 are output steps
func feed(sum *Summary) {
	for k := 1; k <= 3; k++ {
		t := float64(k)
		rep := &poro.Report{
			Step:   k,
			T:      t,
			Dt:     1,
			Iters:  k,
			Output: k > 1,
			Resids: []float64{1, 1e-3 * t},
			DPmax:  10 * t,
			DSmax:  0.01 * t,
			CFL:    0.1 * t,
			P:      []float64{3000 - t, 2900 - t},
			S:      []float64{0.3, 0.7, 0.3 + 0.01*t, 0.7 - 0.01*t},
			Ni:     []float64{100 * t, 200 * t},
			Wells: []*poro.WellReport{
				{Name: "INJ", Open: true, Mode: "rate", BHP: 4000 + t, Rate: 300, Qt: []float64{5, 0}},
				{Name: "PROD", Open: true, Mode: "bhp", BHP: 2000, Rate: 100 * t, Qt: []float64{-1, -2 * t}},
			},
		}
		sum.Accepted(rep)
	}
	sum.Rejected(3, 2, "negative pressure")
}

func Test_summary01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("summary01. recording reports")

	sum := NewSummary("", "test", "gob", false)
	feed(sum)

	// steps
	require.Len(tst, sum.Steps, 3)
	chk.Scalar(tst, "dt", 1e-15, sum.Steps[2].Dt, 1)
	chk.IntAssert(sum.Steps[2].Iters, 3)
	chk.Vector(tst, "resids", 1e-15, sum.Resids.Vals, []float64{1, 1e-3, 1, 2e-3, 1, 3e-3})
	chk.Vector(tst, "out times", 1e-15, sum.OutTimes, []float64{2, 3})
	chk.IntAssert(sum.Nrejected, 1)
	assert.NoError(tst, sum.Err())

	// wells
	require.Len(tst, sum.Wells, 2)
	inj := sum.Well("INJ")
	require.NotNil(tst, inj)
	chk.Vector(tst, "inj: t", 1e-15, inj.T, []float64{1, 2, 3})
	chk.Vector(tst, "inj: bhp", 1e-15, inj.BHP, []float64{4001, 4002, 4003})
	assert.Equal(tst, []string{"bhp", "bhp", "bhp"}, sum.Well("PROD").Mode)
	assert.Nil(tst, sum.Well("none"))

	// series
	_, q1, err := sum.WellSeries("PROD", "q1")
	require.NoError(tst, err)
	chk.Vector(tst, "prod: q1", 1e-15, q1, []float64{-2, -4, -6})
	_, rate, err := sum.WellSeries("PROD", "rate")
	require.NoError(tst, err)
	chk.Vector(tst, "prod: rate", 1e-15, rate, []float64{100, 200, 300})
	t, dt, err := sum.StepSeries("dt")
	require.NoError(tst, err)
	chk.Vector(tst, "t", 1e-15, t, []float64{1, 2, 3})
	chk.Vector(tst, "dt", 1e-15, dt, []float64{1, 1, 1})
	_, cfl, err := sum.StepSeries("cfl")
	require.NoError(tst, err)
	chk.Vector(tst, "cfl", 1e-15, cfl, []float64{0.1, 0.2, 0.3})

	// errors
	_, _, err = sum.WellSeries("none", "bhp")
	assert.Error(tst, err)
	_, _, err = sum.WellSeries("INJ", "q2")
	assert.Error(tst, err)
	_, _, err = sum.WellSeries("INJ", "temperature")
	assert.Error(tst, err)
	_, _, err = sum.StepSeries("temperature")
	assert.Error(tst, err)
}

func Test_summary02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("summary02. saving and reading results")

	for _, enctype := range []string{"gob", "json"} {

		// run
		dir := tst.TempDir()
		sum := NewSummary(dir, "test", enctype, chk.Verbose)
		feed(sum)
		require.NoError(tst, sum.Err())
		require.NoError(tst, sum.Save())

		// summary
		res, err := ReadSum(dir, "test", enctype)
		require.NoError(tst, err, enctype)
		chk.Vector(tst, enctype+": out times", 1e-15, res.OutTimes, []float64{2, 3})
		chk.Vector(tst, enctype+": resids", 1e-15, res.Resids.Vals, sum.Resids.Vals)
		chk.IntAssert(res.Nrejected, 1)
		require.Len(tst, res.Wells, 2)
		chk.Vector(tst, enctype+": prod rate", 1e-15, res.Well("PROD").Rate, []float64{100, 200, 300})
		chk.StrAssert(res.EncType, enctype)

		// states
		sta, err := res.ReadState(1)
		require.NoError(tst, err)
		chk.Scalar(tst, enctype+": t", 1e-15, sta.T, 3)
		chk.Vector(tst, enctype+": p", 1e-15, sta.P, []float64{2997, 2897})
		_, err = res.ReadState(2)
		assert.Error(tst, err)

		// cell series
		t, s, err := res.CellSeries("s", 1, 0)
		require.NoError(tst, err)
		chk.Vector(tst, enctype+": t", 1e-15, t, []float64{2, 3})
		chk.Vector(tst, enctype+": s", 1e-14, s, []float64{0.32, 0.33})
		_, ni, err := res.CellSeries("ni", 1, 0)
		require.NoError(tst, err)
		chk.Vector(tst, enctype+": ni", 1e-15, ni, []float64{400, 600})
		_, _, err = res.CellSeries("s", 2, 0)
		assert.Error(tst, err)
		_, _, err = res.CellSeries("ni", 0, 1)
		assert.Error(tst, err)
	}

	// missing files
	_, err := ReadSum(tst.TempDir(), "none", "gob")
	assert.Error(tst, err)
}

func Test_plot01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("plot01. wells histories")

	sum := NewSummary("", "test", "gob", false)
	feed(sum)

	ResetPlots()
	PlotWells(sum)
	require.Len(tst, Splots, 3)
	assert.Len(tst, Splots[0].Data, 2)
	assert.Equal(tst, "PROD", Splots[1].Data[1].Alias)
	chk.Vector(tst, "bhp", 1e-15, Splots[0].Data[1].Y, []float64{2000, 2000, 2000})

	// convergence curves
	PlotResids(sum, 0)
	require.Len(tst, Splots, 4)
	its := CountIters(&sum.Resids)
	assert.True(tst, len(its) >= 2, "iterations of at least two steps must be counted")
	for _, n := range its {
		chk.Scalar(tst, "iterations", 1e-15, n, 1)
	}

	if chk.Verbose {
		Draw("/tmp/goporo", "plot01.png", false, nil)
	}
	ResetPlots()
	assert.Nil(tst, Csplot)
}
