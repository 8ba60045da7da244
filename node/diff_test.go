package node

import (
	"reflect"
	"testing"
)

func TestDiff(t *testing.T) {
	cases := []struct {
		name      string
		existing  []int
		authority []int
		want      []DiffEntry
	}{
		{
			name:      "empty to empty",
			existing:  nil,
			authority: nil,
			want:      []DiffEntry{},
		},
		{
			name:      "all new",
			existing:  nil,
			authority: []int{0, 2, 5},
			want: []DiffEntry{
				{DiffAdd, 0}, {DiffAdd, 2}, {DiffAdd, 5},
			},
		},
		{
			name:      "all removed",
			existing:  []int{0, 2, 5},
			authority: nil,
			want: []DiffEntry{
				{DiffRemove, 0}, {DiffRemove, 2}, {DiffRemove, 5},
			},
		},
		{
			// S2: sequence [0,2,5] -> authority [0,3,5]: remove(2), add(3).
			name:      "S2 add and remove",
			existing:  []int{0, 2, 5},
			authority: []int{0, 3, 5},
			want: []DiffEntry{
				{DiffKeep, 0}, {DiffRemove, 2}, {DiffAdd, 3}, {DiffKeep, 5},
			},
		},
		{
			name:      "interleaved",
			existing:  []int{1, 3, 5, 7},
			authority: []int{0, 3, 4, 7, 8},
			want: []DiffEntry{
				{DiffAdd, 0}, {DiffRemove, 1}, {DiffKeep, 3},
				{DiffAdd, 4}, {DiffRemove, 5}, {DiffKeep, 7}, {DiffAdd, 8},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Diff(tc.existing, tc.authority)
			if len(got) == 0 {
				got = []DiffEntry{}
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Diff(%v, %v) = %v, want %v", tc.existing, tc.authority, got, tc.want)
			}
		})
	}
}
