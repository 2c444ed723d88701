package throttle

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoRunsImmediatelyWhenIdle(t *testing.T) {
	th := New(time.Hour)
	var n int
	th.Do(func() { n++ })
	assert.Equal(t, 1, n)
	assert.False(t, th.Pending())
}

func TestDoKeepsOnlyLatestPending(t *testing.T) {
	th := New(time.Hour)
	var got []int
	th.Do(func() { got = append(got, 1) })
	th.Do(func() { got = append(got, 2) })
	th.Do(func() { got = append(got, 3) })
	require.True(t, th.Pending())

	th.Flush()
	assert.Equal(t, []int{1, 3}, got)
	assert.False(t, th.Pending())

	th.Flush()
	assert.Equal(t, []int{1, 3}, got)
}

func TestTrailingCallFires(t *testing.T) {
	th := New(20 * time.Millisecond)
	var n atomic.Int32
	th.Do(func() { n.Add(1) })
	th.Do(func() { n.Add(10) })
	assert.Eventually(t, func() bool { return n.Load() == 11 }, time.Second, 5*time.Millisecond)
}

func TestStopDropsPending(t *testing.T) {
	th := New(time.Hour)
	var n int
	th.Do(func() { n++ })
	th.Do(func() { n++ })
	th.Stop()
	th.Flush()
	th.Do(func() { n++ })
	assert.Equal(t, 1, n)
}
