// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out collects, saves and plots the results of simulations
package out

import (
	"bytes"
	"os"

	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/poro"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
)

// StepData holds the statistics of one accepted time step
type StepData struct {
	T      float64 // time at the end of step
	Dt     float64 // size of step
	Iters  int     // Newton iterations
	LinIts int     // iterations of linear solver
	Cuts   int     // cuts before acceptance
	DPmax  float64 // largest pressure change
	DSmax  float64 // largest saturation change
	CFL    float64 // largest CFL number
}

// WellData holds the history of one well
type WellData struct {
	Name string      // name of well
	T    []float64   // times
	BHP  []float64   // bottom-hole pressures
	Rate []float64   // rates in units of control
	Mode []string    // active modes
	Qt   [][]float64 // [ntimes][nc] molar rates into the reservoir
}

// Summary records the history of a simulation. It observes the time steps of a run
type Summary struct {

	// main data
	OutTimes  []float64    // [nOutTimes] output times
	Steps     []*StepData  // accepted steps
	Resids    utl.DblSlist // residuals of all iterations of accepted steps
	Wells     []*WellData  // histories of wells
	Nrejected int          // number of rejected or repeated attempts
	Dirout    string       // directory where results are stored
	Fnkey     string       // filename key of simulation
	EncType   string       // encoder type

	// auxiliary
	tidx    int            // time output index
	wid     map[string]int // maps well name to index in Wells
	verbose bool           // show messages
	err     error          // first error when saving states
}

// NewSummary returns a new summary
//  dirout  -- directory for states at output times; use "" to keep results in memory only
//  fnkey   -- filename key
//  enctype -- "gob" or "json"
func NewSummary(dirout, fnkey, enctype string, verbose bool) (o *Summary) {
	return &Summary{Dirout: dirout, Fnkey: fnkey, EncType: enctype, verbose: verbose}
}

// Accepted records an accepted time step and saves the state if it is an output one
func (o *Summary) Accepted(rep *poro.Report) {

	// step
	o.Steps = append(o.Steps, &StepData{
		T:      rep.T,
		Dt:     rep.Dt,
		Iters:  rep.Iters,
		LinIts: rep.LinIts,
		Cuts:   rep.Cuts,
		DPmax:  rep.DPmax,
		DSmax:  rep.DSmax,
		CFL:    rep.CFL,
	})
	for i, r := range rep.Resids {
		o.Resids.Append(i == 0, r)
	}

	// wells
	for _, w := range rep.Wells {
		wd := o.well(w.Name)
		wd.T = append(wd.T, rep.T)
		wd.BHP = append(wd.BHP, w.BHP)
		wd.Rate = append(wd.Rate, w.Rate)
		wd.Mode = append(wd.Mode, w.Mode)
		wd.Qt = append(wd.Qt, append([]float64(nil), w.Qt...))
	}

	// output
	if !rep.Output {
		return
	}
	o.OutTimes = append(o.OutTimes, rep.T)
	if o.Dirout != "" && o.err == nil {
		sta := &State{T: rep.T, P: rep.P, S: rep.S, Ni: rep.Ni}
		o.err = SaveState(o.Dirout, o.Fnkey, o.EncType, o.tidx, sta, o.verbose)
	}
	o.tidx++
}

// Rejected counts rejected attempts
func (o *Summary) Rejected(t, dt float64, reason string) {
	o.Nrejected++
}

// Err returns the first error that happened when saving states
func (o *Summary) Err() error {
	return o.err
}

// Well returns the history of a well or nil if not found
func (o *Summary) Well(name string) *WellData {
	for _, w := range o.Wells {
		if w.Name == name {
			return w
		}
	}
	return nil
}

// Save saves summary to disc
func (o *Summary) Save() (err error) {
	if o.err != nil {
		return o.err
	}

	// buffer and encoder
	var buf bytes.Buffer
	enc := GetEncoder(&buf, o.EncType)

	// encode summary
	err = enc.Encode(o)
	if err != nil {
		return chk.Err("cannot encode summary:\n%v", err)
	}

	// save file
	fn := out_sum_path(o.Dirout, o.Fnkey, o.EncType)
	return save_file(fn, &buf, o.verbose)
}

// ReadSum reads summary back
func ReadSum(dir, fnkey, enctype string) (o *Summary, err error) {

	// open file
	fn := out_sum_path(dir, fnkey, enctype)
	fil, err := os.Open(fn)
	if err != nil {
		return
	}
	defer func() {
		if e := fil.Close(); err == nil {
			err = e
		}
	}()

	// decode summary
	o = new(Summary)
	dec := GetDecoder(fil, enctype)
	err = dec.Decode(o)
	if err != nil {
		return nil, chk.Err("cannot decode summary from <%s>:\n%v", fn, err)
	}
	o.tidx = len(o.OutTimes)
	return
}

// ReadState reads the state at time output index tidx
func (o *Summary) ReadState(tidx int) (*State, error) {
	if tidx < 0 || tidx >= len(o.OutTimes) {
		return nil, chk.Err("time output index %d is out of range [0, %d)", tidx, len(o.OutTimes))
	}
	return ReadState(o.Dirout, o.Fnkey, o.EncType, tidx)
}

// Print prints the step statistics
func (o *Summary) Print() {
	io.Pf("%6s%14s%14s%6s%8s%6s%14s%14s\n", "step", "t", "dt", "it", "linit", "cuts", "dPmax", "dSmax")
	for k, s := range o.Steps {
		io.Pf("%6d%14.6e%14.6e%6d%8d%6d%14.6e%14.6e\n", k+1, s.T, s.Dt, s.Iters, s.LinIts, s.Cuts, s.DPmax, s.DSmax)
	}
	io.Pf("rejected attempts = %d\n", o.Nrejected)
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// well returns the history of a well creating a new one if needed
func (o *Summary) well(name string) *WellData {
	if o.wid == nil {
		o.wid = make(map[string]int)
		for i, w := range o.Wells {
			o.wid[w.Name] = i
		}
	}
	if i, ok := o.wid[name]; ok {
		return o.Wells[i]
	}
	w := &WellData{Name: name}
	o.wid[name] = len(o.Wells)
	o.Wells = append(o.Wells, w)
	return w
}
