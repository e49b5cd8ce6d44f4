package convert

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOnceRunsFunctionOnce(t *testing.T) {
	var o once[string]
	var calls atomic.Int32

	_, ok := o.Peek()
	assert.False(t, ok)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := o.Do(func() (string, error) {
				calls.Add(1)
				return "t", nil
			})
			assert.NoError(t, err)
			assert.Equal(t, "t", v)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	v, ok := o.Peek()
	assert.True(t, ok)
	assert.Equal(t, "t", v)
}

func TestOnceKeepsError(t *testing.T) {
	var o once[int]
	boom := errors.New("boom")

	_, err := o.Do(func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	_, err = o.Do(func() (int, error) { return 1, nil })
	assert.ErrorIs(t, err, boom)
}
