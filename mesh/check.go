package mesh

import (
	"errors"
	"fmt"
	"slices"
)

// Check audits the adjacency of the whole mesh and returns every violation
// found, joined. Each violation wraps ErrInconsistent.
func (m *Mesh) Check() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInconsistent}, args...)...))
	}

	for cid, c := range m.cells.All() {
		for _, v := range c.verts {
			if !m.vertices.InRange(v) || m.vertices.IsDisabled(v) {
				bad("cell %d uses dead vertex %d", cid, v)
				continue
			}
			if _, ok := slices.BinarySearch(m.vertices.At(v).star, cid); !ok {
				bad("cell %d missing from the star of vertex %d", cid, v)
			}
		}
		for i, fid := range c.facets {
			if fid == NullID || !m.facets.InRange(fid) || m.facets.IsDisabled(fid) {
				bad("cell %d local facet %d points at dead facet %d", cid, i, fid)
			}
		}
		for i, rid := range c.ridges {
			if rid == NullID || !m.ridges.InRange(rid) || m.ridges.IsDisabled(rid) {
				bad("cell %d local ridge %d points at dead ridge %d", cid, i, rid)
			}
		}
	}
	if len(errs) > 0 {
		// the facet and ridge audits below dereference cell arrays
		return errors.Join(errs...)
	}

	for vid, v := range m.vertices.All() {
		if !slices.IsSorted(v.star) || len(slices.Compact(slices.Clone(v.star))) != len(v.star) {
			bad("star of vertex %d is not a sorted set", vid)
		}
		for _, c := range v.star {
			if !m.cells.InRange(c) || m.cells.IsDisabled(c) {
				bad("star of vertex %d holds dead cell %d", vid, c)
				continue
			}
			if !slices.Contains(m.cells.At(c).verts, vid) {
				bad("star of vertex %d holds cell %d which does not use it", vid, c)
			}
		}
	}

	for fid, f := range m.facets.All() {
		if !m.cells.InRange(f.icell) || m.cells.IsDisabled(f.icell) {
			bad("facet %d anchored on dead cell %d", fid, f.icell)
			continue
		}
		if got := m.cells.At(f.icell).facets[f.localID]; got != fid {
			bad("facet %d: cell %d holds facet %d at local %d", fid, f.icell, got, f.localID)
			continue
		}
		if n := len(m.facetHolders(fid)); n != f.valency {
			bad("facet %d has valency %d but %d holding cells", fid, f.valency, n)
		}
		switch {
		case f.valency == 1 && f.oppCell != NullID:
			bad("facet %d of valency 1 has opposite cell %d", fid, f.oppCell)
		case f.valency >= 2 && (f.oppCell == f.icell || !m.cells.InRange(f.oppCell) || m.cells.IsDisabled(f.oppCell)):
			bad("facet %d of valency %d has no live opposite cell", fid, f.valency)
		case f.valency >= 2 && !slices.Contains(m.cells.At(f.oppCell).facets, fid):
			bad("facet %d: opposite cell %d does not hold it", fid, f.oppCell)
		}
	}

	for rid, r := range m.ridges.All() {
		if !m.cells.InRange(r.icell) || m.cells.IsDisabled(r.icell) {
			bad("ridge %d anchored on dead cell %d", rid, r.icell)
			continue
		}
		if got := m.cells.At(r.icell).ridges[r.localID]; got != rid {
			bad("ridge %d: cell %d holds ridge %d at local %d", rid, r.icell, got, r.localID)
			continue
		}
		if n := len(m.ridgeHolders(rid)); n != r.valency {
			bad("ridge %d has valency %d but %d holding cells", rid, r.valency, n)
		}
	}

	return errors.Join(errs...)
}
