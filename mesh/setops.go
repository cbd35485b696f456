package mesh

import "slices"

// commonUpTo returns at most limit ids present in every one of the sorted
// sets, ascending. limit <= 0 means no limit.
func commonUpTo(limit int, sets ...[]int) []int {
	return commonWhere(limit, nil, sets...)
}

// commonWhere is commonUpTo restricted to the ids accepted by keep; a nil keep
// accepts everything. Rejected ids do not count towards limit.
func commonWhere(limit int, keep func(id int) bool, sets ...[]int) []int {
	if len(sets) == 0 {
		return nil
	}
	// Drive the merge from the smallest set
	small := 0
	for i, s := range sets {
		if len(s) < len(sets[small]) {
			small = i
		}
	}
	pos := make([]int, len(sets))
	var out []int
	for _, id := range sets[small] {
		inAll := true
		for k, s := range sets {
			if k == small {
				continue
			}
			for pos[k] < len(s) && s[pos[k]] < id {
				pos[k]++
			}
			if pos[k] == len(s) {
				return out
			}
			if s[pos[k]] != id {
				inAll = false
			}
		}
		if inAll && (keep == nil || keep(id)) {
			out = append(out, id)
			if limit > 0 && len(out) == limit {
				return out
			}
		}
	}
	return out
}

// Fixed-arity forms, for callers that only need existence or a small
// multiplicity
func intersect1(keep func(int) bool, sets ...[]int) []int { return commonWhere(1, keep, sets...) }
func intersect3(keep func(int) bool, sets ...[]int) []int { return commonWhere(3, keep, sets...) }

// insertSorted adds id to the sorted set s, keeping it duplicate-free
func insertSorted(s []int, id int) []int {
	pos, found := slices.BinarySearch(s, id)
	if found {
		return s
	}
	return slices.Insert(s, pos, id)
}

// removeSorted drops id from the sorted set s, reporting whether it was there
func removeSorted(s []int, id int) ([]int, bool) {
	pos, found := slices.BinarySearch(s, id)
	if !found {
		return s, false
	}
	return slices.Delete(s, pos, pos+1), true
}
