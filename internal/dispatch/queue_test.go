package dispatch

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImmediateRunsInline(t *testing.T) {
	var q Queue = Immediate{}

	var got []string
	q.Post(func() { got = append(got, "post") })
	q.Go(func() { got = append(got, "work") }, func() { got = append(got, "then") })

	assert.Equal(t, []string{"post", "work", "then"}, got)
}

func TestSerialPreservesOrder(t *testing.T) {
	q := NewSerial()

	var got []int
	for i := 0; i < 100; i++ {
		i := i
		q.Post(func() { got = append(got, i) })
	}
	q.Close()

	require.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestSerialGoPostsResultBack(t *testing.T) {
	q := NewSerial()
	defer q.Close()

	var mu sync.Mutex
	var result string
	done := make(chan struct{})

	q.Go(func() {
		mu.Lock()
		result = "fetched"
		mu.Unlock()
	}, func() {
		mu.Lock()
		result += " applied"
		mu.Unlock()
		close(done)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("continuation never ran")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "fetched applied", result)
}

func TestSerialPostFromQueue(t *testing.T) {
	q := NewSerial()

	done := make(chan struct{})
	q.Post(func() {
		q.Post(func() { close(done) })
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("nested post never ran")
	}
	q.Close()
}

func TestSerialSurvivesPanic(t *testing.T) {
	q := NewSerial()

	ran := false
	q.Post(func() { panic("boom") })
	q.Post(func() { ran = true })
	q.Close()

	assert.True(t, ran)
}

func TestSerialDropsAfterClose(t *testing.T) {
	q := NewSerial()
	q.Close()

	ran := false
	q.Post(func() { ran = true })
	q.Close()

	assert.False(t, ran)
}
