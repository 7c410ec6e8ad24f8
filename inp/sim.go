// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.sim) JSON file
package inp

import (
	"encoding/json"
	goio "io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
)

// Data holds global data for simulations
type Data struct {
	Desc    string `json:"desc"`    // description of simulation
	DirOut  string `json:"dirout"`  // directory for output; e.g. /tmp/goporo
	Encoder string `json:"encoder"` // encoder name; e.g. "gob" "json"
	Verbose bool   `json:"verbose"` // show messages
	Stat    bool   `json:"stat"`    // show statistics at the end
}

// LinSolData holds data for linear solvers
type LinSolData struct {
	Name      string  `json:"name"`      // "umfpack", "dense" or "bicgstab"
	Tol       float64 `json:"tol"`       // tolerance of iterative solvers
	MaxIt     int     `json:"maxit"`     // max number of iterations of iterative solvers
	Symmetric bool    `json:"symmetric"` // use symmetric solver
	Verbose   bool    `json:"verbose"`   // verbose?
	Timing    bool    `json:"timing"`    // show timing statistics
}

// SolverData holds the data of the nonlinear solver and of the time step controller
type SolverData struct {

	// nonlinear solver
	Assembler    string  `json:"assembler"`    // assembly strategy: "fim"
	Updater      string  `json:"updater"`      // update strategy: "chop" or "full"
	NmaxIt       int     `json:"nmaxit"`       // number of max iterations
	Tol          float64 `json:"tol"`          // tolerance of relative residuals
	DPmin        float64 `json:"dpmin"`        // converged if max |ΔP| is smaller than this and max |ΔS| < DSmin
	DSmin        float64 `json:"dsmin"`        // converged if max |ΔS| is smaller than this and max |ΔP| < DPmin
	DSmaxLim     float64 `json:"dsmaxlim"`     // max saturation change per iteration before chopping
	CteTg        bool    `json:"ctetg"`        // use constant tangent (modified Newton) during iterations
	ShowR        bool    `json:"showr"`        // show residual
	WellRetryMax int     `json:"wellretrymax"` // max number of same-dt retries due to well checks

	// time step controller
	Dt0         float64 `json:"dt0"`         // initial time step size [day]
	DtMin       float64 `json:"dtmin"`       // minimum time step size
	DtMax       float64 `json:"dtmax"`       // maximum time step size
	CutFac      float64 `json:"cutfac"`      // factor to cut time step on failures
	MaxIncrease float64 `json:"maxincrease"` // max factor to increase time step
	MinChange   float64 `json:"minchange"`   // min factor to change time step of accepted steps
	DPlim       float64 `json:"dplim"`       // desired max pressure change per step
	DSlim       float64 `json:"dslim"`       // desired max saturation change per step
	DNlim       float64 `json:"dnlim"`       // desired max relative moles change per step
	EVlim       float64 `json:"evlim"`       // desired max volume error per step
	VolTol      float64 `json:"voltol"`      // max volume error of accepted steps
	CFLMax      float64 `json:"cflmax"`      // max CFL number of accepted steps
	NRiterLow   int     `json:"nriterlow"`   // few iterations: time step may increase with MaxIncrease
	NRiterHigh  int     `json:"nriterhigh"`  // many iterations: time step is halved
	NiNegTol    float64 `json:"ninegtol"`    // tolerance for negative moles relative to total moles
}

// GridData holds data to generate a Cartesian grid. Arrays have length 1 or the full size
type GridData struct {
	Nx   int       `json:"nx"`   // number of blocks along x
	Ny   int       `json:"ny"`   // number of blocks along y
	Nz   int       `json:"nz"`   // number of blocks along z
	Dx   []float64 `json:"dx"`   // block sizes along x [ft]
	Dy   []float64 `json:"dy"`   // block sizes along y [ft]
	Dz   []float64 `json:"dz"`   // block sizes along z [ft]
	Tops float64   `json:"tops"` // depth of top face [ft]
	Kx   []float64 `json:"kx"`   // permeability along x [md]
	Ky   []float64 `json:"ky"`   // permeability along y [md]
	Kz   []float64 `json:"kz"`   // permeability along z [md]
	Ntg  []float64 `json:"ntg"`  // net-to-gross
	Poro []float64 `json:"poro"` // porosity
}

// ModelData holds the name and parameters of a model
type ModelData struct {
	Name string   `json:"name"` // model name; e.g. "corey"
	Prms fun.Prms `json:"prms"` // parameters
}

// FluidData holds data of the phase behaviour model
type FluidData struct {
	Name  string   `json:"name"`  // pvt model name; e.g. "immiscible"
	Prms  fun.Prms `json:"prms"`  // parameters
	Comps []string `json:"comps"` // names of components; e.g. ["water", "oil"]
	Temp  float64  `json:"temp"`  // reservoir temperature
}

// InitData holds data for setting the initial state
type InitData struct {
	P       []float64 `json:"p"`       // [1] or [ncells] pressures
	S       []float64 `json:"s"`       // [np] or [ncells・np] saturations
	HydroSt bool      `json:"hydrost"` // compute pressures with hydrostatic equilibrium from (Dref, Pref)
	Dref    float64   `json:"dref"`    // datum depth
	Pref    float64   `json:"pref"`    // pressure at datum depth
	Phase   int       `json:"phase"`   // phase defining the hydrostatic gradient
}

// PerfData holds perforation data
type PerfData struct {
	I    int     `json:"i"`    // block index along x
	J    int     `json:"j"`    // block index along y
	K    int     `json:"k"`    // block index along z
	WI   float64 `json:"wi"`   // well index; 0 means Peaceman's formula
	Mult float64 `json:"mult"` // multiplier; 0 means 1
	Skin float64 `json:"skin"` // skin factor
	Dir  string  `json:"dir"`  // direction of well through block: "x", "y" or "z"
}

// ControlData holds the control of one well
type ControlData struct {
	Shut bool      `json:"shut"` // well is shut
	Mode string    `json:"mode"` // "rate" or "bhp"
	Kind string    `json:"kind"` // rate kind: "rate", "orate", "wrate", "lrate" or "grate"
	Rate float64   `json:"rate"` // rate target or limit at standard conditions [ft³/day]
	BHP  float64   `json:"bhp"`  // BHP target or bound [psi]
	Zinj []float64 `json:"zinj"` // injected composition
}

// WellData holds well data
type WellData struct {
	Name  string      `json:"name"`  // name of well
	Type  string      `json:"type"`  // "inj" or "prod"
	Dref  float64     `json:"dref"`  // reference depth of BHP; 0 means shallowest perforation
	Rw    float64     `json:"rw"`    // wellbore radius [ft]
	Perfs []*PerfData `json:"perfs"` // perforations
	Ctrl  ControlData `json:"ctrl"`  // initial control
}

// WellCtrl holds a change of well control
type WellCtrl struct {
	Name string      `json:"name"` // name of well
	Ctrl ControlData `json:"ctrl"` // new control
}

// Stage holds stage data
type Stage struct {
	Desc  string      `json:"desc"`  // description of stage
	Tf    float64     `json:"tf"`    // duration of stage [day]
	DtOut float64     `json:"dtout"` // interval between outputs; 0 means stage end only
	Wells []*WellCtrl `json:"wells"` // changes of well controls at the beginning of stage
	Skip  bool        `json:"skip"`  // do not run stage
}

// Simulation holds all simulation data
type Simulation struct {

	// input
	Data   Data        `json:"data"`   // stores global simulation data
	Grid   GridData    `json:"grid"`   // grid data
	Rock   ModelData   `json:"rock"`   // rock compaction model
	Fluid  FluidData   `json:"fluid"`  // phase behaviour model
	Krel   ModelData   `json:"krel"`   // relative permeability model
	Init   InitData    `json:"init"`   // initial state
	Wells  []*WellData `json:"wells"`  // wells
	LinSol LinSolData  `json:"linsol"` // linear solver data
	Solver SolverData  `json:"solver"` // nonlinear solver data
	Stages []*Stage    `json:"stages"` // stores all stages

	// derived
	DirOut  string // directory to save results
	Key     string // simulation key; e.g. mysim01.sim => mysim01 or mysim01-alias
	EncType string // encoder type
}

// Simulation //////////////////////////////////////////////////////////////////////////////////////

// ReadSim reads all simulation data from a .sim JSON file
func ReadSim(simfilepath, alias string, erasefiles bool) (o *Simulation, err error) {

	// read file
	b, err := io.ReadFile(simfilepath)
	if err != nil {
		return nil, chk.Err("ReadSim: cannot read simulation file %q", simfilepath)
	}

	// decode
	o, err = Decode(b)
	if err != nil {
		return nil, chk.Err("ReadSim: cannot load simulation file %q:\n%v", simfilepath, err)
	}

	// filename key
	fnkey := io.FnKey(filepath.Base(simfilepath))
	o.Key = fnkey
	if alias != "" {
		o.Key += "-" + alias
	}

	// output directory
	o.DirOut = os.ExpandEnv(o.Data.DirOut)
	if o.DirOut == "" {
		o.DirOut = "/tmp/goporo/" + fnkey
	}

	// create directory and erase previous simulation results
	if erasefiles {
		err = os.MkdirAll(o.DirOut, 0777)
		if err != nil {
			return nil, chk.Err("cannot create directory for output results (%s): %v", o.DirOut, err)
		}
		io.RemoveAll(io.Sf("%s/%s*", o.DirOut, o.Key))
	}
	return
}

// Decode decodes simulation data from JSON, sets default values and checks the data
func Decode(b []byte) (o *Simulation, err error) {

	// new sim
	o = new(Simulation)

	// set default values
	o.Solver.SetDefault()
	o.LinSol.SetDefault()
	o.Fluid.Name = "immiscible"
	o.Rock.Name = "lin"
	o.Krel.Name = "corey"

	// decode
	err = json.Unmarshal(b, o)
	if err != nil {
		return nil, chk.Err("cannot unmarshal simulation data:\n%v", err)
	}

	// encoder type
	o.EncType = o.Data.Encoder
	if o.EncType != "gob" && o.EncType != "json" {
		o.EncType = "gob"
	}

	// set constants
	err = o.Solver.PostProcess()
	if err != nil {
		return
	}
	err = o.PostProcess()
	return
}

// PostProcess checks and completes grid, wells and stages data
func (o *Simulation) PostProcess() (err error) {

	// grid
	if o.Grid.Nx*o.Grid.Ny*o.Grid.Nz < 1 {
		return chk.Err("grid dimensions must be positive: %dx%dx%d", o.Grid.Nx, o.Grid.Ny, o.Grid.Nz)
	}

	// wells
	names := make(map[string]bool)
	for i, w := range o.Wells {
		if w.Name == "" {
			w.Name = io.Sf("W%d", i)
		}
		if names[w.Name] {
			return chk.Err("well name %q is repeated", w.Name)
		}
		names[w.Name] = true
		w.Type = strings.ToLower(w.Type)
		if w.Type != "inj" && w.Type != "prod" {
			return chk.Err("type of well %q must be \"inj\" or \"prod\"; got %q", w.Name, w.Type)
		}
		if len(w.Perfs) < 1 {
			return chk.Err("well %q must have at least one perforation", w.Name)
		}
		if w.Rw <= 0 {
			w.Rw = 0.25
		}
		for _, p := range w.Perfs {
			if p.Mult <= 0 {
				p.Mult = 1
			}
			if p.Dir == "" {
				p.Dir = "z"
			}
		}
		err = w.Ctrl.PostProcess(w.Name, w.Type)
		if err != nil {
			return
		}
	}

	// stages
	if len(o.Stages) == 0 {
		return chk.Err("at least one stage must be given")
	}
	for i, stg := range o.Stages {
		if stg.Tf <= 0 {
			return chk.Err("duration of stage %d must be positive; got %g", i, stg.Tf)
		}
		if stg.DtOut < 0 {
			stg.DtOut = 0
		}
		for _, wc := range stg.Wells {
			var typ string
			for _, w := range o.Wells {
				if w.Name == wc.Name {
					typ = w.Type
				}
			}
			if typ == "" {
				return chk.Err("stage %d: cannot find well named %q", i, wc.Name)
			}
			err = wc.Ctrl.PostProcess(wc.Name, typ)
			if err != nil {
				return
			}
		}
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// GetInfo returns formatted information
func (o *Simulation) GetInfo(w goio.Writer) (err error) {
	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return
}

// Well returns well data by giving its name
//  Note: returns nil if not found
func (o *Simulation) Well(name string) *WellData {
	for _, w := range o.Wells {
		if w.Name == name {
			return w
		}
	}
	return nil
}

// Tf returns the final time of all stages that are not skipped
func (o *Simulation) Tf() (tf float64) {
	for _, stg := range o.Stages {
		if !stg.Skip {
			tf += stg.Tf
		}
	}
	return
}

// extra settings //////////////////////////////////////////////////////////////////////////////////

// SetDefault sets defaults values
func (o *LinSolData) SetDefault() {
	o.Name = "umfpack"
	o.Tol = 1e-10
	o.MaxIt = 500
}

// Prms returns the parameters of linear solver
func (o *LinSolData) Prms() fun.Prms {
	return fun.Prms{
		&fun.Prm{N: "tol", V: o.Tol},
		&fun.Prm{N: "maxit", V: float64(o.MaxIt)},
		&fun.Prm{N: "symmetric", V: b2f(o.Symmetric)},
		&fun.Prm{N: "verbose", V: b2f(o.Verbose)},
		&fun.Prm{N: "timing", V: b2f(o.Timing)},
	}
}

// SetDefault set defaults values
func (o *SolverData) SetDefault() {

	// nonlinear solver
	o.Assembler = "fim"
	o.Updater = "chop"
	o.NmaxIt = 10
	o.Tol = 1e-3
	o.DPmin = 0.1
	o.DSmin = 1e-3
	o.DSmaxLim = 0.2
	o.WellRetryMax = 1

	// time step controller
	o.Dt0 = 1
	o.DtMin = 1e-4
	o.DtMax = 30
	o.CutFac = 0.33
	o.MaxIncrease = 5
	o.MinChange = 0.3
	o.DPlim = 300
	o.DSlim = 0.3
	o.DNlim = 0.3
	o.EVlim = 0.01
	o.VolTol = 0.01
	o.CFLMax = 50
	o.NRiterLow = 5
	o.NRiterHigh = 10
	o.NiNegTol = 1e-3
}

// PostProcess checks the values of the just read json file
func (o *SolverData) PostProcess() (err error) {
	if o.NmaxIt < 1 {
		return chk.Err("nmaxit must be at least 1; got %d", o.NmaxIt)
	}
	if o.DtMin <= 0 || o.DtMax < o.DtMin {
		return chk.Err("time step bounds are invalid: dtmin = %g, dtmax = %g", o.DtMin, o.DtMax)
	}
	if o.Dt0 < o.DtMin {
		o.Dt0 = o.DtMin
	}
	if o.Dt0 > o.DtMax {
		o.Dt0 = o.DtMax
	}
	if o.CutFac <= 0 || o.CutFac >= 1 {
		return chk.Err("cutfac must be in (0,1); got %g", o.CutFac)
	}
	if o.MaxIncrease < 1 {
		return chk.Err("maxincrease must be ≥ 1; got %g", o.MaxIncrease)
	}
	if o.NRiterHigh <= o.NRiterLow {
		return chk.Err("nriterhigh (%d) must be greater than nriterlow (%d)", o.NRiterHigh, o.NRiterLow)
	}
	if o.WellRetryMax < 0 {
		o.WellRetryMax = 0
	}
	return
}

// PostProcess checks well control data
func (o *ControlData) PostProcess(wname, wtype string) (err error) {
	o.Mode = strings.ToLower(o.Mode)
	o.Kind = strings.ToLower(o.Kind)
	if o.Mode == "" {
		o.Mode = "rate"
	}
	if o.Mode != "rate" && o.Mode != "bhp" {
		return chk.Err("mode of well %q must be \"rate\" or \"bhp\"; got %q", wname, o.Mode)
	}
	if o.Kind == "" {
		o.Kind = "rate"
		if wtype == "prod" {
			o.Kind = "orate"
		}
	}
	switch o.Kind {
	case "rate", "orate", "wrate", "lrate", "grate":
	default:
		return chk.Err("rate kind of well %q is invalid: %q", wname, o.Kind)
	}
	if wtype == "inj" && !o.Shut && len(o.Zinj) == 0 {
		return chk.Err("injected composition of well %q must be given", wname)
	}
	if o.Rate < 0 || o.BHP < 0 {
		return chk.Err("rate and bhp of well %q must be non-negative: rate = %g, bhp = %g", wname, o.Rate, o.BHP)
	}
	return
}

// b2f converts bool to float64
func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
