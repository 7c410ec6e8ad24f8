// Copyright 2015 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/plt"
	"github.com/cpmech/gosl/utl"
)

// subplots
var (
	Splots []*SplotDat // all subplots
	Csplot *SplotDat   // current subplot
)

// PltEntity stores all data for a plot entity (X vs Y)
type PltEntity struct {
	Alias string    // alias
	X     []float64 // x-values
	Y     []float64 // y-values
	Style plt.Fmt   // style
}

// SplotDat stores all data for one subplot
type SplotDat struct {
	Title string       // title of subplot
	Topts string       // title options
	Xlbl  string       // x-axis label; e.g. "$t$ [day]"
	Ylbl  string       // y-axis label; e.g. "$p_{bh}$ [psi]"
	Data  []*PltEntity // data and styles to be plotted
}

// Splot activates a new subplot window
func Splot(splotTitle, xlbl, ylbl string) {
	s := &SplotDat{Title: splotTitle, Xlbl: xlbl, Ylbl: ylbl}
	Splots = append(Splots, s)
	Csplot = s
}

// Plot adds data to the current subplot
//  alias -- alias such as the name of a well
//  fm    -- formatting codes; e.g. plt.Fmt{C:"blue", L:"label"}
func Plot(x, y []float64, alias string, fm plt.Fmt) {
	if len(x) != len(y) {
		chk.Panic("lengths of x- and y-series are different. len(x)=%d, len(y)=%d", len(x), len(y))
	}
	if Csplot == nil {
		Splot("", "", "")
	}
	Csplot.Data = append(Csplot.Data, &PltEntity{Alias: alias, X: x, Y: y, Style: fm})
}

// ResetPlots clears all subplots
func ResetPlots() {
	Splots = nil
	Csplot = nil
}

// PlotWells adds subplots with the bottom-hole pressures and rates of all wells and with the
// sizes of time steps
func PlotWells(sum *Summary) {
	colors := []string{"b", "r", "g", "m", "c", "k"}
	Splot("bottom-hole pressure", "$t$ [day]", "$p_{bh}$ [psi]")
	for i, w := range sum.Wells {
		Plot(w.T, w.BHP, w.Name, plt.Fmt{C: colors[i%len(colors)], M: "."})
	}
	Splot("rate", "$t$ [day]", "$q$")
	for i, w := range sum.Wells {
		Plot(w.T, w.Rate, w.Name, plt.Fmt{C: colors[i%len(colors)], M: "."})
	}
	t, dt, _ := sum.StepSeries("dt")
	Splot("time steps", "$t$ [day]", "$\\Delta t$ [day]")
	Plot(t, dt, "dt", plt.Fmt{C: "k", Ls: "-", M: "o"})
}

// CountIters returns the number of iterations of each accepted step from the residuals
func CountIters(resid *utl.DblSlist) (N []float64) {
	P := resid.Ptrs
	for i := 0; i < len(P)-1; i++ {
		n := P[i+1] - P[i]
		N = append(N, float64(n-1))
	}
	return
}

// PlotResids adds a subplot with the convergence curves of accepted steps
//  skip -- number of initial steps to skip
func PlotResids(sum *Summary, skip int) {
	R := sum.Resids.Vals
	P := sum.Resids.Ptrs
	Splot("convergence", "iteration index", "$\\mathrm{log_{10}}(R)$")
	for i := 0; i < len(P)-1; i++ {
		if i < skip {
			continue
		}
		n := P[i+1] - P[i]
		x := make([]float64, n)
		y := make([]float64, n)
		k := 0
		for j := P[i]; j < P[i+1]; j++ {
			x[k] = float64(k)
			y[k] = math.Log10(math.Max(R[j], 1e-300))
			k += 1
		}
		Plot(x, y, "", plt.Fmt{C: "k", Ls: "-", M: "."})
	}
}

// ExtraPlt defines a callback function for extra plt commands
//  Note: i and j are indices as in Subplot
type ExtraPlt func(i, j, nplots int)

// Draw draws or save figure with plot
//  dirout -- directory to save figure
//  fname  -- file name; e.g. myplot.eps or myplot.png. Use "" to skip saving
//  show   -- shows figure
//  extra  -- is called just after Subplot command and before any plotting
func Draw(dirout, fname string, show bool, extra ExtraPlt) {
	nplots := len(Splots)
	nr, nc := utl.BestSquare(nplots)
	var k int
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			if k >= nplots {
				break
			}
			plt.Subplot(nr, nc, k+1)
			if extra != nil {
				extra(i+1, j+1, nplots)
			}
			if Splots[k].Title != "" {
				plt.Title(Splots[k].Title, Splots[k].Topts)
			}
			for _, d := range Splots[k].Data {
				if d.Style.L == "" {
					d.Style.L = d.Alias
				}
				plt.Plot(d.X, d.Y, d.Style.GetArgs("clip_on=0"))
			}
			plt.Gll(Splots[k].Xlbl, Splots[k].Ylbl, "")
			k += 1
		}
	}
	if fname != "" {
		plt.SaveD(dirout, fname)
	}
	if show {
		plt.Show()
	}
}
