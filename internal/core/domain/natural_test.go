package domain

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareNumbers(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"A-2", "A-10", -1},
		{"A-10", "A-2", 1},
		{"a-101", "A-101", 0},
		{"A-101", "A-101.1", -1},
		{"A-007", "A-7", 0},
		{"A-1", "B-1", -1},
		{"", "A", -1},
		{"", "", 0},
		{"S-99999999999999999999", "S-100000000000000000000", -1},
	}

	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareNumbers(tt.a, tt.b))
		})
	}
}

func TestCompareNumbers_Sorts(t *testing.T) {
	nums := []string{"A-10", "A-2", "a-1", "A-1.5", "S-1", "A-100"}

	sort.SliceStable(nums, func(i, j int) bool { return CompareNumbers(nums[i], nums[j]) < 0 })

	assert.Equal(t, []string{"a-1", "A-1.5", "A-2", "A-10", "A-100", "S-1"}, nums)
}
