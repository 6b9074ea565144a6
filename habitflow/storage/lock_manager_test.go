package storage

import (
	"errors"
	"sync"
	"testing"
)

func TestLockManagerExecute(t *testing.T) {
	t.Run("returns the function error", func(t *testing.T) {
		lm := NewLockManager()
		want := errors.New("boom")
		if err := lm.Execute(WriteOperation, func() error { return want }); !errors.Is(err, want) {
			t.Errorf("expected %v, got %v", want, err)
		}
	})

	t.Run("result is passed through", func(t *testing.T) {
		lm := NewLockManager()
		got, err := ExecuteWithResult(lm, ReadOperation, func() (int, error) { return 42, nil })
		if err != nil || got != 42 {
			t.Errorf("expected 42, nil; got %d, %v", got, err)
		}
	})

	t.Run("writes are serialised", func(t *testing.T) {
		lm := NewLockManager()
		counter := 0
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = lm.Execute(WriteOperation, func() error {
					counter++
					return nil
				})
			}()
		}
		wg.Wait()
		if counter != 50 {
			t.Errorf("expected 50 increments, got %d", counter)
		}
	})

	t.Run("lock released after panic", func(t *testing.T) {
		lm := NewLockManager()
		func() {
			defer func() { _ = recover() }()
			_ = lm.Execute(WriteOperation, func() error { panic("fail") })
		}()
		done := make(chan struct{})
		go func() {
			_ = lm.Execute(WriteOperation, func() error { return nil })
			close(done)
		}()
		<-done
	})
}

func TestStoreDataNormalize(t *testing.T) {
	d := &StoreData{}
	d.Normalize()
	if d.Habits == nil || d.Completions == nil {
		t.Fatal("expected empty collections after normalize")
	}
	if d.Metadata.Version != FormatVersion {
		t.Errorf("expected version %s, got %q", FormatVersion, d.Metadata.Version)
	}
}
