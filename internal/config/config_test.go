package config

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetOutput_SwapWhileLogging(t *testing.T) {
	var first, second bytes.Buffer
	prev := SetOutput(&first)
	t.Cleanup(func() { SetOutput(prev) })

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					Warnf("worker %d", i)
				}
			}
		}()
	}

	for i := 0; i < 100; i++ {
		SetOutput(&second)
		SetOutput(&first)
	}
	old := SetOutput(&second)
	assert.Same(t, &first, old)

	// Nothing lands in the old writer once SetOutput has returned.
	frozen := first.Len()
	close(stop)
	wg.Wait()
	assert.Equal(t, frozen, first.Len())

	for _, line := range strings.Split(strings.TrimSuffix(first.String()+second.String(), "\n"), "\n") {
		if line != "" {
			assert.True(t, strings.HasPrefix(line, "[WARN] worker "), line)
		}
	}
}
