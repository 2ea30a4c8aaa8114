package registry

import (
	"context"
	"errors"
	"sync"
	"testing"
)

var testProduct = Product{Name: "Premium Wireless Headphones", Price: "$299.99", URL: "http://shop.example/headphones"}

func TestSubscribeStoresNormalizedEmail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewService(NewMemoryStore(), nil)

	record, err := svc.Subscribe(ctx, "A@Example.COM", testProduct)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if record.Email != "a@example.com" {
		t.Fatalf("expected normalized email, got %q", record.Email)
	}
	if record.ID == "" {
		t.Fatal("expected record id to be set")
	}
	if record.SubscribedAt.IsZero() {
		t.Fatal("expected subscription timestamp to be set")
	}
	if record.Product != testProduct {
		t.Fatalf("unexpected product: %+v", record.Product)
	}
}

func TestSubscribeRejectsPaddedEmail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewService(NewMemoryStore(), nil)

	// Validation runs on the raw input, so surrounding whitespace fails the
	// address check before normalization ever sees it.
	for _, raw := range []string{"  a@example.com", "a@example.com ", " a@example.com "} {
		if _, err := svc.Subscribe(ctx, raw, testProduct); !errors.Is(err, ErrInvalidEmail) {
			t.Fatalf("Subscribe(%q): expected ErrInvalidEmail, got %v", raw, err)
		}
	}

	count, err := svc.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("rejected submissions must not mutate the store, got %d records", count)
	}
}

func TestSubscribeDedupesCaseVariants(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewService(NewMemoryStore(), nil)

	if _, err := svc.Subscribe(ctx, "A@Example.com", testProduct); err != nil {
		t.Fatalf("first subscribe: %v", err)
	}
	_, err := svc.Subscribe(ctx, "a@example.com", testProduct)
	if !errors.Is(err, ErrAlreadySubscribed) {
		t.Fatalf("expected ErrAlreadySubscribed, got %v", err)
	}

	count, err := svc.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record, got %d", count)
	}
}

func TestSubscribeInvalidEmailIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewService(NewMemoryStore(), nil)

	for range 3 {
		_, err := svc.Subscribe(ctx, "not-an-email", testProduct)
		if !errors.Is(err, ErrInvalidEmail) {
			t.Fatalf("expected ErrInvalidEmail, got %v", err)
		}
	}
	count, err := svc.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("invalid submissions must not mutate the store, got %d records", count)
	}
}

func TestListPreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewService(NewMemoryStore(), nil)

	addresses := []string{"one@example.com", "two@example.com", "three@example.com"}
	for _, addr := range addresses {
		if _, err := svc.Subscribe(ctx, addr, testProduct); err != nil {
			t.Fatalf("subscribe %s: %v", addr, err)
		}
	}

	records, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != len(addresses) {
		t.Fatalf("expected %d records, got %d", len(addresses), len(records))
	}
	for i, addr := range addresses {
		if records[i].Email != addr {
			t.Fatalf("expected %q at position %d, got %q", addr, i, records[i].Email)
		}
	}
}

func TestConcurrentSubscribesForSameEmailHaveOneWinner(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewService(NewMemoryStore(), nil)

	const attempts = 16
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Subscribe(ctx, "race@example.com", testProduct)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, duplicates int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrAlreadySubscribed):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
	if duplicates != attempts-1 {
		t.Fatalf("expected %d duplicates, got %d", attempts-1, duplicates)
	}
}

func TestRecordedHookFiresOnSuccessOnly(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var fired []Record
	svc := NewService(NewMemoryStore(), func(_ context.Context, record Record) {
		fired = append(fired, record)
	})

	if _, err := svc.Subscribe(ctx, "hook@example.com", testProduct); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if _, err := svc.Subscribe(ctx, "hook@example.com", testProduct); !errors.Is(err, ErrAlreadySubscribed) {
		t.Fatalf("expected ErrAlreadySubscribed, got %v", err)
	}
	if _, err := svc.Subscribe(ctx, "bogus", testProduct); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}

	if len(fired) != 1 || fired[0].Email != "hook@example.com" {
		t.Fatalf("expected one hook invocation for the stored record, got %+v", fired)
	}
}

func TestClassifyError(t *testing.T) {
	t.Parallel()

	cases := map[error]ErrorKind{
		ErrInvalidEmail:      ErrorInvalidEmail,
		ErrAlreadySubscribed: ErrorAlreadySubscribed,
		errors.New("disk on fire"): ErrorServerFault,
	}
	for err, want := range cases {
		if got := ClassifyError(err); got != want {
			t.Errorf("ClassifyError(%v) = %q, want %q", err, got, want)
		}
	}
}
