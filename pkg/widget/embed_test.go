package widget

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []SuccessMessage
	notified chan struct{}
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{notified: make(chan struct{}, 8)}
}

func (n *recordingNotifier) Notify(msg SuccessMessage) {
	n.mu.Lock()
	n.messages = append(n.messages, msg)
	n.mu.Unlock()
	n.notified <- struct{}{}
}

func (n *recordingNotifier) all() []SuccessMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]SuccessMessage(nil), n.messages...)
}

func TestParseLaunchParams(t *testing.T) {
	t.Parallel()

	params := url.Values{}
	params.Set("name", "Premium Wireless Headphones")
	params.Set("price", "$299.99")
	params.Set("url", "http://shop.example/headphones")
	params.Set("api", "http://api.example/subscribe-price-drop")
	params.Set("accent", "#667eea")
	params.Set("bg", "#f0f0f0")

	cfg := ParseLaunchParams(params)
	if cfg.Product.Name != "Premium Wireless Headphones" || cfg.Product.Price != "$299.99" {
		t.Fatalf("unexpected product: %+v", cfg.Product)
	}
	if cfg.Product.URL != "http://shop.example/headphones" {
		t.Fatalf("unexpected product url: %q", cfg.Product.URL)
	}
	if cfg.APIEndpoint != "http://api.example/subscribe-price-drop" {
		t.Fatalf("unexpected endpoint: %q", cfg.APIEndpoint)
	}
	if cfg.Theme.AccentColor != "#667eea" || cfg.Theme.BackgroundColor != "#f0f0f0" {
		t.Fatalf("unexpected theme: %+v", cfg.Theme)
	}
}

func TestParseLaunchParamsDefaultsMissingProductFields(t *testing.T) {
	t.Parallel()

	cfg := ParseLaunchParams(url.Values{})
	if cfg.Product.Name != "Unknown Product" {
		t.Fatalf("unexpected default name: %q", cfg.Product.Name)
	}
	if cfg.Product.Price != "N/A" {
		t.Fatalf("unexpected default price: %q", cfg.Product.Price)
	}
}

func TestEmbeddedWidgetNotifiesHostOnceOnSuccess(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(server.Close)

	params := url.Values{}
	params.Set("name", "X")
	params.Set("price", "$10")
	params.Set("url", "http://x")
	params.Set("api", server.URL)

	notifier := newRecordingNotifier()
	w := NewEmbedded(params, notifier)

	w.Submit(context.Background(), "user@example.com")

	select {
	case <-notifier.notified:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for host notification")
	}

	messages := notifier.all()
	if len(messages) != 1 {
		t.Fatalf("expected exactly one message, got %d", len(messages))
	}
	if messages[0].Type != SuccessMessageType {
		t.Fatalf("unexpected message type %q", messages[0].Type)
	}
	if messages[0].Product != (ProductData{Name: "X", Price: "$10", URL: "http://x"}) {
		t.Fatalf("unexpected message product: %+v", messages[0].Product)
	}
}

func TestEmbeddedWidgetDoesNotNotifyOnFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"ok":false,"error":"already_subscribed"}`))
	}))
	t.Cleanup(server.Close)

	params := url.Values{}
	params.Set("api", server.URL)

	notifier := newRecordingNotifier()
	w := NewEmbedded(params, notifier)

	w.Submit(context.Background(), "user@example.com")

	select {
	case <-notifier.notified:
		t.Fatal("failure must not notify the host")
	case <-time.After(100 * time.Millisecond):
	}
}
