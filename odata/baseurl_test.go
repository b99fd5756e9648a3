package odata

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseURL(t *testing.T) {
	var calls atomic.Int32
	base := NewBaseURL(func() string {
		calls.Add(1)
		return "http://data.example.org/datastore/odata3.0/"
	})

	assert.Equal(t, "http://data.example.org/datastore/odata3.0/", base.String())
	assert.Equal(t, "http://data.example.org/datastore/odata3.0/", base.String())
	assert.Equal(t, int32(1), calls.Load())

	assert.Equal(t, "http://data.example.org/datastore/odata3.0/widgets", base.Link("widgets"))
}

func TestBaseURLConcurrentFirstUse(t *testing.T) {
	base := NewBaseURL(func() string { return "http://x/" })

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = base.String()
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, "http://x/", r)
	}
}
