package news

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountPages(t *testing.T) {
	for _, size := range []int{1, 2, 9, 10, 20, 100} {
		t.Run(fmt.Sprintf("size_%d", size), func(t *testing.T) {
			assert.Equal(t, 0, CountPages(0, size))
			assert.Equal(t, 1, CountPages(size, size))
			assert.Equal(t, 2, CountPages(size+1, size))
			assert.Equal(t, 3, CountPages(3*size, size))
		})
	}
}

func TestCountPages_LargeTotals(t *testing.T) {
	// Integer ceiling must stay exact where float rounding would not.
	assert.Equal(t, 1<<52+1, CountPages(1<<53+1, 2))
	assert.Equal(t, 12, CountPages(100, 9))
}

func TestCountPages_NonPositive(t *testing.T) {
	assert.Equal(t, 0, CountPages(-5, 10))
	assert.Equal(t, 0, CountPages(10, 0))
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name       string
		requested  int
		totalPages int
		want       int
	}{
		{"within bounds", 3, 5, 3},
		{"at upper bound", 5, 5, 5},
		{"above upper bound", 9, 5, 5},
		{"single page", 2, 1, 1},
		{"no known bound", 7, 0, 7},
		{"first page no results", 1, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clamp(tt.requested, tt.totalPages))
		})
	}
}

func TestClamp_Properties(t *testing.T) {
	for total := 1; total <= 20; total++ {
		for req := 1; req <= 30; req++ {
			got := Clamp(req, total)
			if req > total {
				assert.Equal(t, total, got, "Clamp(%d, %d)", req, total)
			} else {
				assert.Equal(t, req, got, "Clamp(%d, %d)", req, total)
			}
		}
	}
}

func TestDisplayPages(t *testing.T) {
	for total := 0; total <= 40; total++ {
		assert.Equal(t, min(total, 12), DisplayPages(total))
	}
}
