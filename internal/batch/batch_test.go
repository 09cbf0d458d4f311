package batch_test

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/matthewmueller/webfetch/internal/batch"
)

func TestOrder(t *testing.T) {
	is := is.New(t)
	b := batch.New[int](0)
	for i := range 5 {
		b.Go(func() (int, error) {
			// Finish in reverse order
			time.Sleep(time.Duration(5-i) * 5 * time.Millisecond)
			return i, nil
		})
	}
	results := b.Wait()
	is.Equal(len(results), 5)
	for i, result := range results {
		is.NoErr(result.Err)
		is.Equal(result.Value, i)
	}
}

func TestErrorsDontStopOthers(t *testing.T) {
	is := is.New(t)
	b := batch.New[string](0)
	b.Go(func() (string, error) { return "", errors.New("first failed") })
	b.Go(func() (string, error) {
		time.Sleep(10 * time.Millisecond)
		return "second", nil
	})
	results := b.Wait()
	is.Equal(len(results), 2)
	is.Equal(results[0].Err.Error(), "first failed")
	is.NoErr(results[1].Err)
	is.Equal(results[1].Value, "second")
}

func TestLimit(t *testing.T) {
	is := is.New(t)
	b := batch.New[int](2)
	var running, peak atomic.Int32
	for i := range 6 {
		b.Go(func() (int, error) {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
			return i, nil
		})
	}
	results := b.Wait()
	is.Equal(len(results), 6)
	is.True(peak.Load() <= 2)
}

func TestEmpty(t *testing.T) {
	is := is.New(t)
	b := batch.New[int](4)
	is.Equal(len(b.Wait()), 0)
}
