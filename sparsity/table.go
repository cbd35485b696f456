// Package sparsity builds the row-wise coupling tables a bandwidth-reducing
// reordering consumes. A Table is a square pattern: row i holds the sorted,
// duplicate-free column ids coupled to i. Tables are filled single-threaded;
// once filled, the statistics and permutation passes run over disjoint row
// ranges in parallel.
package sparsity

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/graph/simple"
)

var (
	ErrOutOfRange     = errors.New("sparsity: index out of range")
	ErrNotPermutation = errors.New("sparsity: not a permutation")
)

type Table struct {
	rows [][]int
}

// New returns an empty n x n table
func New(n int) *Table {
	return &Table{rows: make([][]int, max(n, 0))}
}

func (t *Table) NumRows() int { return len(t.rows) }

// Add couples row to col. It reports whether the entry is new.
func (t *Table) Add(row, col int) (bool, error) {
	n := len(t.rows)
	if row < 0 || row >= n || col < 0 || col >= n {
		return false, fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfRange, row, col, n, n)
	}
	return t.add(row, col), nil
}

func (t *Table) add(row, col int) bool {
	r := t.rows[row]
	pos, found := slices.BinarySearch(r, col)
	if found {
		return false
	}
	t.rows[row] = slices.Insert(r, pos, col)
	return true
}

// AddSymmetric couples a to b and b to a
func (t *Table) AddSymmetric(a, b int) error {
	if _, err := t.Add(a, b); err != nil {
		return err
	}
	_, err := t.Add(b, a)
	return err
}

// Row returns the columns of row i. The slice is owned by the table.
func (t *Table) Row(i int) []int { return t.rows[i] }

// NumNonZeros sums the row sizes
func (t *Table) NumNonZeros() int {
	var total atomic.Int64
	_ = parallelFor(len(t.rows), func(lo, hi int) error {
		var n int
		for _, r := range t.rows[lo:hi] {
			n += len(r)
		}
		total.Add(int64(n))
		return nil
	})
	return int(total.Load())
}

// Bandwidth returns max |i-j| over all entries
func (t *Table) Bandwidth() int {
	var bw int
	for i, r := range t.rows {
		if len(r) == 0 {
			continue
		}
		bw = max(bw, i-r[0], r[len(r)-1]-i)
	}
	return bw
}

// Permute returns the table renumbered by perm, where perm[old] = new
func (t *Table) Permute(perm []int) (*Table, error) {
	n := len(t.rows)
	if len(perm) != n {
		return nil, fmt.Errorf("%w: length %d for %d rows", ErrNotPermutation, len(perm), n)
	}
	seen := make([]bool, n)
	for old, p := range perm {
		if p < 0 || p >= n || seen[p] {
			return nil, fmt.Errorf("%w: entry %d maps to %d", ErrNotPermutation, old, p)
		}
		seen[p] = true
	}
	out := New(n)
	// perm is a bijection, so every worker writes distinct rows
	err := parallelFor(n, func(lo, hi int) error {
		for old := lo; old < hi; old++ {
			src := t.rows[old]
			dst := make([]int, len(src))
			for k, c := range src {
				dst[k] = perm[c]
			}
			slices.Sort(dst)
			out.rows[perm[old]] = dst
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Graph returns the table as an undirected graph over row ids, diagonal
// entries dropped
func (t *Table) Graph() *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for i := range t.rows {
		g.AddNode(simple.Node(i))
	}
	for i, r := range t.rows {
		for _, c := range r {
			if c > i {
				g.SetEdge(simple.Edge{F: simple.Node(i), T: simple.Node(c)})
			}
		}
	}
	return g
}

// IsSymmetric reports whether every (i,j) entry has its (j,i) mate
func (t *Table) IsSymmetric() bool {
	var broken atomic.Bool
	_ = parallelFor(len(t.rows), func(lo, hi int) error {
		for i := lo; i < hi && !broken.Load(); i++ {
			for _, c := range t.rows[i] {
				if _, ok := slices.BinarySearch(t.rows[c], i); !ok {
					broken.Store(true)
					break
				}
			}
		}
		return nil
	})
	return !broken.Load()
}

// parallelFor splits [0,n) into contiguous ranges, one per worker, and runs
// fn on each
func parallelFor(n int, fn func(lo, hi int) error) error {
	if n == 0 {
		return nil
	}
	workers := runtime.GOMAXPROCS(0)
	size := (n + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		g.Go(func() error { return fn(lo, hi) })
	}
	return g.Wait()
}
