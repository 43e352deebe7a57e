package memory

import "github.com/ethereum/go-ethereum/common"

// addressSet is an insertion-ordered set of addresses with O(1) add,
// remove, contains and indexed access. Removal swaps the last element into
// the freed slot.
type addressSet struct {
	values  []common.Address
	indexes map[common.Address]int
}

func newAddressSet() *addressSet {
	return &addressSet{indexes: make(map[common.Address]int)}
}

func (s *addressSet) add(a common.Address) bool {
	if _, ok := s.indexes[a]; ok {
		return false
	}
	s.indexes[a] = len(s.values)
	s.values = append(s.values, a)
	return true
}

func (s *addressSet) remove(a common.Address) bool {
	i, ok := s.indexes[a]
	if !ok {
		return false
	}
	last := len(s.values) - 1
	if i != last {
		moved := s.values[last]
		s.values[i] = moved
		s.indexes[moved] = i
	}
	s.values = s.values[:last]
	delete(s.indexes, a)
	return true
}

func (s *addressSet) contains(a common.Address) bool {
	_, ok := s.indexes[a]
	return ok
}

func (s *addressSet) len() int {
	return len(s.values)
}

func (s *addressSet) at(i int) (common.Address, bool) {
	if i < 0 || i >= len(s.values) {
		return common.Address{}, false
	}
	return s.values[i], true
}

func (s *addressSet) list() []common.Address {
	out := make([]common.Address, len(s.values))
	copy(out, s.values)
	return out
}

func (s *addressSet) clone() *addressSet {
	c := &addressSet{
		values:  s.list(),
		indexes: make(map[common.Address]int, len(s.indexes)),
	}
	for a, i := range s.indexes {
		c.indexes[a] = i
	}
	return c
}
