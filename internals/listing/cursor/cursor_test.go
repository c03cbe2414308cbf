package cursor

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCursorMaxPage(t *testing.T) {
	c := New(5)
	for _, tc := range []struct{ n, want int }{{0, 0}, {1, 1}, {5, 1}, {6, 2}, {12, 3}} {
		c.SetCount(tc.n)
		assert.Equal(t, tc.want, c.MaxPage(), "count %d", tc.n)
	}
}

func TestCursorNavigation(t *testing.T) {
	c := New(5)
	c.SetCount(12)

	c.Next()
	c.Next()
	assert.Equal(t, 3, c.Page())
	c.Next()
	assert.Equal(t, 3, c.Page())

	c.Prev()
	c.Prev()
	c.Prev()
	assert.Equal(t, 1, c.Page())

	c.Jump(7)
	assert.Equal(t, 3, c.Page())
	c.Jump(0)
	assert.Equal(t, 1, c.Page())
	c.Jump(-4)
	assert.Equal(t, 1, c.Page())
}

func TestCursorEmptyList(t *testing.T) {
	c := New(5)
	c.SetCount(0)
	c.Next()
	assert.Equal(t, 1, c.Page())
	c.Jump(3)
	assert.Equal(t, 1, c.Page())
	start, end := c.Bounds()
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
}

func TestCursorDoesNotClampOnShrink(t *testing.T) {
	c := New(5)
	c.SetCount(12)
	c.Jump(3)
	c.SetCount(4)
	assert.Equal(t, 3, c.Page())
	assert.True(t, c.OutOfRange())

	assert.True(t, c.Repair())
	assert.Equal(t, 1, c.Page())
	assert.False(t, c.Repair())
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}
	c := New(3)
	assert.Equal(t, []int{1, 2, 3}, Slice(c, items))
	c.Next()
	c.Next()
	assert.Equal(t, []int{7}, Slice(c, items))

	c.Jump(10)
	assert.Equal(t, 3, c.Page())
	assert.Empty(t, Slice(c, items[:2]))
}

func TestCursorRandomWalkStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 200; round++ {
		p := 1 + rng.Intn(10)
		c := New(p)
		c.SetCount(rng.Intn(60))

		for step := 0; step < 40; step++ {
			switch rng.Intn(4) {
			case 0:
				c.Next()
			case 1:
				c.Prev()
			case 2:
				c.Jump(rng.Intn(20) - 5)
			case 3:
				c.SetCount(rng.Intn(60))
				c.Repair()
			}

			n := c.Count()
			assert.Equal(t, (n+p-1)/p, c.MaxPage(), "count %d size %d", n, p)
			assert.GreaterOrEqual(t, c.Page(), 1)
			assert.LessOrEqual(t, c.Page(), max(1, c.MaxPage()), "count %d size %d", n, p)

			start, end := c.Bounds()
			assert.LessOrEqual(t, end-start, p)
			if n > 0 {
				assert.Less(t, start, end)
			}
		}
	}
}
