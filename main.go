// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/inp"
	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/out"
	"github.com/OpenCAEPlus/OpenCAEPoro-sub000/poro"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			for i := 8; i > 3; i-- {
				chk.CallerInfo(i)
			}
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	// read input parameters
	fnamepath, _ := io.ArgToFilename(0, "", ".sim", true)
	verbose := io.ArgToBool(1, true)
	erasePrev := io.ArgToBool(2, true)
	saveSummary := io.ArgToBool(3, true)
	plotWells := io.ArgToBool(4, false)
	alias := io.ArgToString(5, "")

	// message
	if verbose {
		io.PfWhite("\nGoporo -- fully implicit simulation of multiphase flow in porous media\n\n")
		io.Pf("Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.\n")
		io.Pf("Use of this source code is governed by a BSD-style\n")
		io.Pf("license that can be found in the LICENSE file.\n\n")

		io.Pf("\n%v\n", io.ArgsTable(
			"filename path", "fnamepath", fnamepath,
			"show messages", "verbose", verbose,
			"erase previous results", "erasePrev", erasePrev,
			"save summary", "saveSummary", saveSummary,
			"plot wells histories", "plotWells", plotWells,
			"word to add to results", "alias", alias,
		))
	}

	// profiling?
	defer utl.DoProf(false)()

	// simulation data
	sim, err := inp.ReadSim(fnamepath, alias, erasePrev)
	if err != nil {
		chk.Panic("ReadSim failed:\n%v", err)
	}
	io.Verbose = verbose || sim.Data.Verbose

	// allocate simulation and summary
	sum := out.NewSummary(sim.DirOut, sim.Key, sim.EncType, io.Verbose)
	analysis, err := poro.NewPoro(sim, io.Verbose, sum)
	if err != nil {
		chk.Panic("NewPoro failed:\n%v", err)
	}

	// run simulation
	err = analysis.Run()
	if sim.Data.Stat {
		sum.Print()
	}
	if saveSummary {
		if e := sum.Save(); e != nil {
			chk.Panic("cannot save summary:\n%v", e)
		}
	}
	if err != nil {
		chk.Panic("Run failed:\n%v", err)
	}

	// plot
	if plotWells {
		out.PlotWells(sum)
		out.PlotResids(sum, 0)
		out.Draw(sim.DirOut, sim.Key+"_wells.png", false, nil)
	}
}
