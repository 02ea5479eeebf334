package collation

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollator_Compare(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"Key0", "Key1", -1},
		{"Key2", "Key1", 1},
		{"apple", "Banana", -1},
		{"Apple", "apple", 0},
		{"beta", "Alpha", 1},
		{"xz", "xy", 1},
		{"co-op", "coop", 0},
		{"New York", "newyork", 0},
		{"résumé", "resume", 1},
	}

	c := New()
	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Compare(tt.a, tt.b))
		})
	}
}

func TestCollator_SortsKeywords(t *testing.T) {
	c := New()
	names := []string{"Key2", "Key0", "Key1", "alpha"}

	sort.SliceStable(names, func(i, j int) bool { return c.Compare(names[i], names[j]) < 0 })

	assert.Equal(t, []string{"alpha", "Key0", "Key1", "Key2"}, names)
}

func TestCollator_Concurrent(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, -1, c.Compare("a", "b"))
		}()
	}
	wg.Wait()
}
