package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepWraps(t *testing.T) {
	r := Range{Start: 2, End: 6}
	tests := []struct {
		name    string
		current int
		step    int
		dir     Direction
		want    int
	}{
		{"forward inside", 3, 1, Forward, 4},
		{"forward to end", 5, 1, Forward, 6},
		{"forward wraps", 6, 1, Forward, 2},
		{"forward wide step wraps", 5, 2, Forward, 2},
		{"backward inside", 4, 1, Backward, 3},
		{"backward wraps", 2, 1, Backward, 6},
		{"backward wide step wraps", 3, 3, Backward, 6},
		{"zero step treated as one", 3, 0, Forward, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Step(tt.current, r, tt.step, tt.dir))
		})
	}
}

func TestDegenerateRangeAlwaysStart(t *testing.T) {
	r := Range{Start: 4, End: 4}
	for _, cur := range []int{1, 4, 9} {
		assert.Equal(t, 4, Advance(cur, r, 1))
		assert.Equal(t, 4, Retreat(cur, r, 2))
		assert.Equal(t, 4, SkipForward(cur, r, 3))
	}
	r.Reverse = true
	assert.Equal(t, 4, Advance(4, r, 1))
}

func TestAdvanceFollowsReverse(t *testing.T) {
	r := Range{Start: 1, End: 10}
	assert.Equal(t, 6, Advance(5, r, 1))
	assert.Equal(t, 1, Advance(10, r, 1))

	r.Reverse = true
	assert.Equal(t, 4, Advance(5, r, 1))
	assert.Equal(t, 10, Advance(1, r, 1))
}

func TestRetreatAndSkipIgnoreReverse(t *testing.T) {
	r := Range{Start: 1, End: 10, Reverse: true}
	assert.Equal(t, 4, Retreat(5, r, 1))
	assert.Equal(t, 10, Retreat(1, r, 1))
	assert.Equal(t, 6, SkipForward(5, r, 1))
	assert.Equal(t, 1, SkipForward(10, r, 1))
}

func TestStaysInRangeOverManySteps(t *testing.T) {
	r := Range{Start: 3, End: 11}
	for _, step := range []int{1, 2, 3} {
		for _, reverse := range []bool{false, true} {
			r.Reverse = reverse
			cur := InitialIndex(r)
			for range 50 {
				cur = Advance(cur, r, step)
				assert.GreaterOrEqual(t, cur, r.Start)
				assert.LessOrEqual(t, cur, r.End)
			}
		}
	}
}

func TestForwardFullCycleReturnsToStart(t *testing.T) {
	r := Range{Start: 1, End: 5}
	cur := InitialIndex(r)
	seen := []int{cur}
	for range 5 {
		cur = Advance(cur, r, 1)
		seen = append(seen, cur)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5, 1}, seen)
}

func TestTimerSequences(t *testing.T) {
	tests := []struct {
		name string
		r    Range
		step int
		want []int
	}{
		{"forward wraps to start", Range{Start: 3, End: 7}, 1, []int{3, 4, 5, 6, 7, 3, 4}},
		{"step two", Range{Start: 1, End: 5}, 2, []int{1, 3, 5, 1}},
		{"reverse wraps to end", Range{Start: 3, End: 7, Reverse: true}, 1, []int{7, 6, 5, 4, 3, 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cur := InitialIndex(tt.r)
			got := []int{cur}
			for len(got) < len(tt.want) {
				cur = Advance(cur, tt.r, tt.step)
				got = append(got, cur)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRetreatUndoesSkipForward(t *testing.T) {
	tests := []struct {
		name    string
		r       Range
		current int
		step    int
	}{
		{"single step", Range{Start: 1, End: 10}, 4, 1},
		{"wide step", Range{Start: 1, End: 10}, 2, 3},
		{"reversed range", Range{Start: 3, End: 9, Reverse: true}, 5, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.current, Retreat(SkipForward(tt.current, tt.r, tt.step), tt.r, tt.step))
		})
	}
}

func TestInitialIndex(t *testing.T) {
	assert.Equal(t, 3, InitialIndex(Range{Start: 3, End: 9}))
	assert.Equal(t, 9, InitialIndex(Range{Start: 3, End: 9, Reverse: true}))
}

func TestPreview(t *testing.T) {
	assert.Equal(t, 1, PreviewBack(2, 3))
	assert.Equal(t, 4, PreviewBack(7, 3))

	assert.Equal(t, 4, PreviewForward(1, 10, 3))
	assert.Equal(t, 10, PreviewForward(7, 10, 3))
	assert.Equal(t, 8, PreviewForward(9, 10, 3))
	assert.Equal(t, 1, PreviewForward(1, 2, 3))
	assert.Equal(t, 10, PreviewForward(10, 10, 1))

	assert.Equal(t, NavState{CanBack: false, CanForward: true}, Nav(1, 10, 2))
	assert.Equal(t, NavState{CanBack: true, CanForward: false}, Nav(9, 10, 2))
	assert.Equal(t, NavState{CanBack: true, CanForward: true}, Nav(8, 10, 2))
}
