package tx_test

import (
	"context"
	"sync"
	"testing"

	"pomodoro/internal/platform/tx"
)

func TestSingleWriterSerializesReadModifyWrite(t *testing.T) {
	t.Parallel()
	writer := tx.NewSingleWriter()
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = writer.Within(context.Background(), func(context.Context) error {
				current := counter
				counter = current + 1
				return nil
			})
		}()
	}
	wg.Wait()
	if counter != 50 {
		t.Fatalf("expected 50 serialized increments, got %d", counter)
	}
}

func TestSingleWriterSkipsCanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := tx.NewSingleWriter().Within(ctx, func(context.Context) error {
		called = true
		return nil
	})
	if err == nil || called {
		t.Fatalf("expected canceled context to short-circuit, err=%v called=%t", err, called)
	}
}
