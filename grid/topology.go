// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package grid implements the static topology of the reservoir: active cells, their
// geometric and rock data and the cell adjacency used to build connections
package grid

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Axis indicates the principal direction of a connection
type Axis int

const (
	AxisX Axis = iota // connection along x
	AxisY             // connection along y
	AxisZ             // connection along z
)

// String returns the name of the axis
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	}
	return "z"
}

// Cell holds the geometric and rock data of one active grid block
type Cell struct {
	I, J, K    int     // logical indices in the structured grid
	Dx, Dy, Dz float64 // block sizes [ft]
	Depth      float64 // depth of block centre [ft]
	Kx, Ky, Kz float64 // permeabilities [md]
	Ntg        float64 // net-to-gross ratio
	Poro       float64 // porosity at reference pressure
}

// V returns the bulk volume of cell
func (o Cell) V() float64 { return o.Dx * o.Dy * o.Dz }

// Vref returns the pore volume at reference pressure
func (o Cell) Vref() float64 { return o.Dx * o.Dy * o.Dz * o.Ntg * o.Poro }

// Size returns the block size along axis
func (o Cell) Size(ax Axis) float64 {
	switch ax {
	case AxisX:
		return o.Dx
	case AxisY:
		return o.Dy
	}
	return o.Dz
}

// Perm returns the permeability along axis
func (o Cell) Perm(ax Axis) float64 {
	switch ax {
	case AxisX:
		return o.Kx
	case AxisY:
		return o.Ky
	}
	return o.Kz
}

// Area returns the interface area normal to axis
func (o Cell) Area(ax Axis) float64 {
	switch ax {
	case AxisX:
		return o.Dy * o.Dz
	case AxisY:
		return o.Dx * o.Dz
	}
	return o.Dx * o.Dy
}

// HalfTrans returns the geometric half transmissibility of cell along axis.
// Net-to-gross reduces horizontal flow areas only.
func (o Cell) HalfTrans(ax Axis) float64 {
	d := 0.5 * o.Size(ax)
	if d <= 0 {
		return 0
	}
	t := o.Perm(ax) * o.Area(ax) / d
	if ax != AxisZ {
		t *= o.Ntg
	}
	return t
}

// Topology holds all active cells and their adjacency. It is immutable after construction.
type Topology struct {
	Nx, Ny, Nz int     // structured dimensions
	Cells      []Cell  // [ncells] active cells
	Neighbors  [][]int // [ncells] active neighbours of each cell; ascending
	Act2Grid   []int   // [ncells] active index => global index
	Grid2Act   []int   // [nx*ny*nz] global index => active index; -1 means inactive
}

// Ncells returns the number of active cells
func (o *Topology) Ncells() int { return len(o.Cells) }

// Global returns the global (structured) index of (i,j,k)
func (o *Topology) Global(i, j, k int) int { return i + j*o.Nx + k*o.Nx*o.Ny }

// Locate returns the active index of structured block (i,j,k)
func (o *Topology) Locate(i, j, k int) (n int, err error) {
	if i < 0 || j < 0 || k < 0 || i >= o.Nx || j >= o.Ny || k >= o.Nz {
		return -1, chk.Err("block (%d,%d,%d) is outside grid %dx%dx%d", i, j, k, o.Nx, o.Ny, o.Nz)
	}
	n = o.Grid2Act[o.Global(i, j, k)]
	if n < 0 {
		return -1, chk.Err("block (%d,%d,%d) is inactive", i, j, k)
	}
	return
}

// Axis returns the principal axis of the connection between active cells a and b
func (o *Topology) Axis(a, b int) Axis {
	ca, cb := o.Cells[a], o.Cells[b]
	switch {
	case ca.I != cb.I:
		return AxisX
	case ca.J != cb.J:
		return AxisY
	}
	return AxisZ
}

// Trans returns the harmonic average of the half transmissibilities of cells a and b
// along their common axis; i.e. 1/(1/Ta + 1/Tb)
func (o *Topology) Trans(a, b int) float64 {
	ax := o.Axis(a, b)
	ta := o.Cells[a].HalfTrans(ax)
	tb := o.Cells[b].HalfTrans(ax)
	if ta <= 0 || tb <= 0 {
		return 0
	}
	return 1.0 / (1.0/ta + 1.0/tb)
}

// Nconns returns the number of cell pairs
func (o *Topology) Nconns() (nconn int) {
	for n, nbs := range o.Neighbors {
		for _, m := range nbs {
			if m < n {
				nconn++
			}
		}
	}
	return
}

// Check verifies the invariants of topology
func (o *Topology) Check() (err error) {
	for n, nbs := range o.Neighbors {
		for k, m := range nbs {
			if m == n || m < 0 || m >= len(o.Cells) {
				return chk.Err("neighbour %d of cell %d is invalid", m, n)
			}
			if k > 0 && nbs[k-1] >= m {
				return chk.Err("neighbours of cell %d are not in ascending order: %v", n, nbs)
			}
		}
	}
	for n, c := range o.Cells {
		if c.Vref() <= 0 || math.IsNaN(c.Depth) {
			return chk.Err("cell %d has invalid geometry or rock data: %+v", n, c)
		}
	}
	return
}
