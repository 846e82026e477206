package generic

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	calls := 0
	f := func() error {
		calls++
		if calls == 4 {
			return nil
		}
		return errors.New("error")
	}

	// retry only twice, and we expect an error as a result
	err := Retry(context.Background(), f, 2, 0)
	if err == nil {
		t.Fatalf("expected an error, but got none")
	}
	// two retries = three function calls
	if calls != 3 {
		t.Fatalf("expected %d calls, but got %d", 3, calls)
	}

	// retry six times, and we expect a success (after four calls)
	calls = 0
	err = Retry(context.Background(), f, 6, 0)
	if err != nil {
		t.Fatalf("expected no error, but got one")
	}
	// when success, do NOT retry again
	if calls != 4 {
		t.Fatalf("expected %d calls, but got %d", 4, calls)
	}
}

func TestRetryPermanent(t *testing.T) {
	calls := 0
	cause := errors.New("no such domain")
	err := Retry(context.Background(), func() error {
		calls++
		return Permanent(cause)
	}, 5, 0)

	if err != cause {
		t.Fatalf("expected the permanent cause to be returned, but got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single call, but got %d", calls)
	}
}

func TestRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, func() error {
		return errors.New("error")
	}, 3, time.Hour)
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, but got %v", err)
	}
}
