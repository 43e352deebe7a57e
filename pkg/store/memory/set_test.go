package memory

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func addr(n byte) common.Address {
	return common.BytesToAddress([]byte{n})
}

func TestAddressSet(t *testing.T) {
	tests := []struct {
		name   string
		add    []byte
		remove []byte
		want   []byte
	}{
		{
			name: "insertion order",
			add:  []byte{1, 2, 3},
			want: []byte{1, 2, 3},
		},
		{
			name:   "remove first swaps last into slot",
			add:    []byte{1, 2, 3},
			remove: []byte{1},
			want:   []byte{3, 2},
		},
		{
			name:   "remove last truncates",
			add:    []byte{1, 2, 3},
			remove: []byte{3},
			want:   []byte{1, 2},
		},
		{
			name:   "remove middle",
			add:    []byte{1, 2, 3, 4},
			remove: []byte{2},
			want:   []byte{1, 4, 3},
		},
		{
			name:   "remove everything",
			add:    []byte{1, 2},
			remove: []byte{2, 1},
			want:   []byte{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newAddressSet()
			for _, n := range tt.add {
				assert.True(t, s.add(addr(n)))
			}
			for _, n := range tt.remove {
				assert.True(t, s.remove(addr(n)))
			}

			want := make([]common.Address, 0, len(tt.want))
			for _, n := range tt.want {
				want = append(want, addr(n))
			}
			assert.Equal(t, want, s.list())
			assert.Equal(t, len(want), s.len())
			for i, a := range want {
				got, ok := s.at(i)
				assert.True(t, ok)
				assert.Equal(t, a, got)
				assert.True(t, s.contains(a))
			}
		})
	}
}

func TestAddressSet_Idempotent(t *testing.T) {
	s := newAddressSet()

	assert.True(t, s.add(addr(1)))
	assert.False(t, s.add(addr(1)))
	assert.Equal(t, 1, s.len())

	assert.True(t, s.remove(addr(1)))
	assert.False(t, s.remove(addr(1)))
	assert.Equal(t, 0, s.len())

	_, ok := s.at(0)
	assert.False(t, ok)
	_, ok = s.at(-1)
	assert.False(t, ok)
}

func TestAddressSet_CloneIsIndependent(t *testing.T) {
	s := newAddressSet()
	s.add(addr(1))
	s.add(addr(2))

	c := s.clone()
	c.remove(addr(1))
	c.add(addr(3))

	assert.Equal(t, []common.Address{addr(1), addr(2)}, s.list())
	assert.Equal(t, []common.Address{addr(2), addr(3)}, c.list())
}
