package ecs

import "github.com/argus-labs/reactive-font/pkg/assert"

// sparseSet maps entity IDs to rows in an archetype. It is indexed by entity ID, which stays dense
// because destroyed IDs are recycled.
type sparseSet []int

const (
	sparseCapacity  = 64
	sparseTombstone = -1
)

func newSparseSet() sparseSet {
	s := make(sparseSet, sparseCapacity)
	for i := range s {
		s[i] = sparseTombstone
	}
	return s
}

func (s *sparseSet) get(eid EntityID) (int, bool) {
	if int(eid) >= len(*s) {
		return 0, false
	}
	row := (*s)[eid]
	if row == sparseTombstone {
		return 0, false
	}
	return row, true
}

// set stores the entity's row, growing the set to fit the ID.
func (s *sparseSet) set(eid EntityID, row int) {
	assert.That(row >= 0, "row must be non-negative, got %d", row)

	if int(eid) >= len(*s) {
		oldLen := len(*s)
		grown := make(sparseSet, max(oldLen*2, int(eid)+1))
		copy(grown, *s)
		for i := oldLen; i < len(grown); i++ {
			grown[i] = sparseTombstone
		}
		*s = grown
	}
	(*s)[eid] = row
}

// remove deletes the entity's row mapping. Returns false if the entity wasn't in the set.
func (s *sparseSet) remove(eid EntityID) bool {
	if int(eid) >= len(*s) || (*s)[eid] == sparseTombstone {
		return false
	}
	(*s)[eid] = sparseTombstone
	return true
}
