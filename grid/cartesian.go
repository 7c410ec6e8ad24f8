// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"sort"

	"github.com/cpmech/gosl/chk"
)

// Cartesian holds the data to generate a structured orthogonal grid.
//  Note: Dx, Dy and Dz have length 1 (uniform) or nx, ny, nz respectively;
//        property arrays have length 1 (homogeneous) or nx*ny*nz
type Cartesian struct {
	Nx, Ny, Nz int       // number of blocks along each direction
	Dx, Dy, Dz []float64 // block sizes [ft]
	Tops       float64   // depth of top face of first layer [ft]
	Kx, Ky, Kz []float64 // permeabilities [md]
	Ntg        []float64 // net-to-gross; empty means 1
	Poro       []float64 // porosity; blocks with zero porosity or ntg are inactive
}

// NewCartesian generates the topology of a structured grid
func NewCartesian(dat *Cartesian) (o *Topology, err error) {

	// check dimensions
	if dat.Nx < 1 || dat.Ny < 1 || dat.Nz < 1 {
		return nil, chk.Err("grid dimensions must be positive: %dx%dx%d", dat.Nx, dat.Ny, dat.Nz)
	}
	ntot := dat.Nx * dat.Ny * dat.Nz
	sizes := []struct {
		name string
		arr  []float64
		n    int
	}{
		{"dx", dat.Dx, dat.Nx}, {"dy", dat.Dy, dat.Ny}, {"dz", dat.Dz, dat.Nz},
		{"kx", dat.Kx, ntot}, {"ky", dat.Ky, ntot}, {"kz", dat.Kz, ntot},
		{"poro", dat.Poro, ntot},
	}
	for _, s := range sizes {
		if len(s.arr) != 1 && len(s.arr) != s.n {
			return nil, chk.Err("array %q must have length 1 or %d; got %d", s.name, s.n, len(s.arr))
		}
	}
	if len(dat.Ntg) > 1 && len(dat.Ntg) != ntot {
		return nil, chk.Err("array \"ntg\" must have length 0, 1 or %d; got %d", ntot, len(dat.Ntg))
	}

	// layer depths
	depths := make([]float64, dat.Nz)
	top := dat.Tops
	for k := 0; k < dat.Nz; k++ {
		dz := pick(dat.Dz, k)
		depths[k] = top + dz/2
		top += dz
	}

	// active cells
	o = &Topology{Nx: dat.Nx, Ny: dat.Ny, Nz: dat.Nz}
	o.Grid2Act = make([]int, ntot)
	for k := 0; k < dat.Nz; k++ {
		for j := 0; j < dat.Ny; j++ {
			for i := 0; i < dat.Nx; i++ {
				g := o.Global(i, j, k)
				ntg := 1.0
				if len(dat.Ntg) > 0 {
					ntg = pick(dat.Ntg, g)
				}
				c := Cell{
					I: i, J: j, K: k,
					Dx: pick(dat.Dx, i), Dy: pick(dat.Dy, j), Dz: pick(dat.Dz, k),
					Depth: depths[k],
					Kx:    pick(dat.Kx, g), Ky: pick(dat.Ky, g), Kz: pick(dat.Kz, g),
					Ntg:   ntg,
					Poro:  pick(dat.Poro, g),
				}
				if c.Poro <= 0 || c.Ntg <= 0 {
					o.Grid2Act[g] = -1
					continue
				}
				o.Grid2Act[g] = len(o.Cells)
				o.Cells = append(o.Cells, c)
				o.Act2Grid = append(o.Act2Grid, g)
			}
		}
	}
	if len(o.Cells) == 0 {
		return nil, chk.Err("grid has no active cells")
	}

	// adjacency
	o.Neighbors = make([][]int, len(o.Cells))
	for n, c := range o.Cells {
		for _, d := range [][3]int{{-1, 0, 0}, {1, 0, 0}, {0, -1, 0}, {0, 1, 0}, {0, 0, -1}, {0, 0, 1}} {
			i, j, k := c.I+d[0], c.J+d[1], c.K+d[2]
			if i < 0 || j < 0 || k < 0 || i >= o.Nx || j >= o.Ny || k >= o.Nz {
				continue
			}
			m := o.Grid2Act[o.Global(i, j, k)]
			if m >= 0 {
				o.Neighbors[n] = append(o.Neighbors[n], m)
			}
		}
		sort.Ints(o.Neighbors[n])
	}
	err = o.Check()
	return
}

// pick returns arr[i] or arr[0] if arr has a single (uniform) value
func pick(arr []float64, i int) float64 {
	if len(arr) == 1 {
		return arr[0]
	}
	return arr[i]
}
