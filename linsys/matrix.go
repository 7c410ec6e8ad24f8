// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package linsys implements the block-sparse linear system of the Newton-Raphson method and
// the solvers (backends) that compute its solution
package linsys

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"gonum.org/v1/gonum/mat"
)

// Adder adds values to a block matrix
type Adder interface {
	Add(bi, bj, r, c int, v float64) // Add adds v to entry (r,c) of block (bi,bj)
}

// BlockMatrix implements a square block-sparse matrix with a fixed pattern.
// Each block row stores its diagonal block first, followed by the off-diagonal blocks in
// ascending order of block column
type BlockMatrix struct {
	Nb   int         // number of block rows (and columns)
	Bs   int         // block size
	Cols [][]int     // [nb] block columns of each block row
	Vals [][]float64 // [nb][ncols・bs・bs] values of blocks in row-major order
}

// NewBlockMatrix allocates a new matrix
//  pattern -- [nb] off-diagonal block columns of each block row; may be unsorted.
//             diagonal blocks are always included
func NewBlockMatrix(nb, bs int, pattern [][]int) (o *BlockMatrix, err error) {
	if nb < 1 || bs < 1 {
		return nil, chk.Err("block matrix dimensions must be positive: nb=%d bs=%d", nb, bs)
	}
	if len(pattern) != nb {
		return nil, chk.Err("pattern must have %d rows; got %d", nb, len(pattern))
	}
	o = &BlockMatrix{Nb: nb, Bs: bs}
	o.Cols = make([][]int, nb)
	o.Vals = make([][]float64, nb)
	for i, row := range pattern {
		cols := []int{i}
		seen := map[int]bool{i: true}
		off := make([]int, 0, len(row))
		for _, j := range row {
			if j < 0 || j >= nb {
				return nil, chk.Err("block column %d of row %d is out of range [0,%d)", j, i, nb)
			}
			if !seen[j] {
				seen[j] = true
				off = append(off, j)
			}
		}
		sort.Ints(off)
		o.Cols[i] = append(cols, off...)
		o.Vals[i] = make([]float64, len(o.Cols[i])*bs*bs)
	}
	return
}

// N returns the number of scalar rows
func (o *BlockMatrix) N() int { return o.Nb * o.Bs }

// Nnz returns the number of stored scalar entries
func (o *BlockMatrix) Nnz() (nnz int) {
	for _, v := range o.Vals {
		nnz += len(v)
	}
	return
}

// Zero sets all values to zero
func (o *BlockMatrix) Zero() {
	for _, v := range o.Vals {
		for k := range v {
			v[k] = 0
		}
	}
}

// Find returns the position of block (bi,bj) in row bi or -1 if it is not in the pattern
func (o *BlockMatrix) Find(bi, bj int) int {
	for k, j := range o.Cols[bi] {
		if j == bj {
			return k
		}
	}
	return -1
}

// Block returns the values of block (bi,bj) (a view) or nil if it is not in the pattern
func (o *BlockMatrix) Block(bi, bj int) []float64 {
	k := o.Find(bi, bj)
	if k < 0 {
		return nil
	}
	bb := o.Bs * o.Bs
	return o.Vals[bi][k*bb : (k+1)*bb]
}

// Add adds v to entry (r,c) of block (bi,bj)
func (o *BlockMatrix) Add(bi, bj, r, c int, v float64) {
	k := o.Find(bi, bj)
	if k < 0 {
		chk.Panic("block (%d,%d) is not in the pattern of block matrix", bi, bj)
	}
	o.Vals[bi][(k*o.Bs+r)*o.Bs+c] += v
}

// Get returns entry (r,c) of block (bi,bj)
func (o *BlockMatrix) Get(bi, bj, r, c int) float64 {
	k := o.Find(bi, bj)
	if k < 0 {
		return 0
	}
	return o.Vals[bi][(k*o.Bs+r)*o.Bs+c]
}

// MulVec computes y = A・x
func (o *BlockMatrix) MulVec(y, x []float64) {
	bs := o.Bs
	for k := range y {
		y[k] = 0
	}
	for i, cols := range o.Cols {
		vals := o.Vals[i]
		for k, j := range cols {
			blk := vals[k*bs*bs : (k+1)*bs*bs]
			for r := 0; r < bs; r++ {
				sum := 0.0
				for c := 0; c < bs; c++ {
					sum += blk[r*bs+c] * x[j*bs+c]
				}
				y[i*bs+r] += sum
			}
		}
	}
}

// ToTriplet writes all entries into a triplet; t is allocated if empty.
// Entries are always put in the same order
func (o *BlockMatrix) ToTriplet(t *la.Triplet) {
	n := o.N()
	if t.Max() == 0 {
		t.Init(n, n, o.Nnz())
	}
	bs := o.Bs
	t.Start()
	for i, cols := range o.Cols {
		vals := o.Vals[i]
		for k, j := range cols {
			for r := 0; r < bs; r++ {
				for c := 0; c < bs; c++ {
					t.Put(i*bs+r, j*bs+c, vals[(k*bs+r)*bs+c])
				}
			}
		}
	}
}

// ToDense returns a dense copy of this matrix
func (o *BlockMatrix) ToDense() *mat.Dense {
	n, bs := o.N(), o.Bs
	a := mat.NewDense(n, n, nil)
	for i, cols := range o.Cols {
		vals := o.Vals[i]
		for k, j := range cols {
			for r := 0; r < bs; r++ {
				for c := 0; c < bs; c++ {
					a.Set(i*bs+r, j*bs+c, vals[(k*bs+r)*bs+c])
				}
			}
		}
	}
	return a
}
