package store_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/effective-security/toolchat/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryHistory(t *testing.T) {
	h := store.NewMemoryHistory()
	assert.Equal(t, 0, h.Len())
	assert.Nil(t, h.Last(3))

	h.Add("User: what pods are running?")
	h.Add("AI used tools: [list_pods]")
	h.Add("User: restart the failing one")

	assert.Equal(t, 3, h.Len())

	last := h.Last(2)
	require.Len(t, last, 2)
	assert.Equal(t, "AI used tools: [list_pods]", last[0])
	assert.Equal(t, "User: restart the failing one", last[1])

	// asking for more than we have returns everything, oldest first
	all := h.Last(10)
	require.Len(t, all, 3)
	assert.Equal(t, "User: what pods are running?", all[0])

	assert.Nil(t, h.Last(0))
	assert.Nil(t, h.Last(-1))
}

func TestMemoryHistory_LastIsCopy(t *testing.T) {
	h := store.NewMemoryHistory()
	h.Add("one")
	h.Add("two")

	last := h.Last(2)
	last[0] = "mutated"

	again := h.Last(2)
	assert.Equal(t, "one", again[0])
}

func TestMemoryHistory_Concurrent(t *testing.T) {
	h := store.NewMemoryHistory()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				h.Add(fmt.Sprintf("entry %d/%d", i, j))
				_ = h.Last(3)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 200, h.Len())
}
