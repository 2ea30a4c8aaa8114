// Package widget implements the embeddable price-drop subscription widget:
// a small state machine around one email form, the submission client it
// drives, and the advisory "already subscribed" markers it keeps on the
// device. Rendering is delegated to a host-provided Surface so the widget's
// visual state stays isolated from whatever styles the host carries.
package widget

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pricedrop/notifier/pkg/email"
)

// State is the widget's lifecycle state. One instance owns exactly one state;
// instances share nothing.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
	StateError      State = "error"
)

// ProductData is the product context the widget subscribes against. It is
// supplied by the host page or the frame launch parameters, never fetched by
// the widget itself.
type ProductData struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	URL   string `json:"url"`
}

// Theme carries the two colors hosts may override.
type Theme struct {
	AccentColor     string
	BackgroundColor string
}

// Surface renders widget views. Implementations own a style-scoped subtree:
// host styling must not leak in, widget styling must not leak out.
type Surface interface {
	Render(View)
}

// Host resolves mount surfaces by container id.
type Host interface {
	Container(id string) (Surface, bool)
}

// View is an immutable snapshot of what the widget wants shown.
type View struct {
	State       State
	Message     string
	MessageKind string // "success", "error", or empty
	Input       string
	Product     ProductData
	Theme       Theme
	Stylesheet  string
}

// Config configures a widget instance. Zero values take the documented
// defaults.
type Config struct {
	APIEndpoint   string // default "/subscribe-price-drop"
	Product       ProductData
	ContainerID   string // default "price-drop-widget-root"
	CSSURL        string // optional external stylesheet
	Theme         Theme
	SubmitTimeout time.Duration // default 30s; exceeding it counts as a network failure
	IdleDelay     time.Duration // default 3s before success/error returns to idle
	Markers       MarkerStore   // default in-memory
	HTTPClient    *http.Client
	Logger        *slog.Logger
	OnSuccess     func(ProductData)
}

const (
	defaultAPIEndpoint = "/subscribe-price-drop"
	defaultContainerID = "price-drop-widget-root"
	defaultAccentColor = "#FF9900"
	defaultBackground  = "#ffffff"

	defaultSubmitTimeout = 30 * time.Second
	defaultIdleDelay     = 3 * time.Second
)

const (
	msgInvalidEmail      = "Please enter a valid email address"
	msgAlreadySubscribed = "You're already subscribed to this product"
	msgServerError       = "Server error. Please try again later."
	msgNetworkError      = "Network error. Please check your connection."
	msgGenericError      = "Something went wrong. Please try again."
	msgSuccess           = "Success! We'll notify you when the price drops."
)

// Widget is one rendered subscription form. All mutable state lives behind
// the instance mutex.
type Widget struct {
	cfg    Config
	client *submitClient
	log    *slog.Logger

	mu         sync.Mutex
	surface    Surface
	stylesheet string
	state      State
	message    string
	msgKind    string
	input      string
	generation uint64
}

// New constructs a widget. It does not render until Init succeeds.
func New(cfg Config) *Widget {
	if cfg.APIEndpoint == "" {
		cfg.APIEndpoint = defaultAPIEndpoint
	}
	if cfg.ContainerID == "" {
		cfg.ContainerID = defaultContainerID
	}
	if cfg.Theme.AccentColor == "" {
		cfg.Theme.AccentColor = defaultAccentColor
	}
	if cfg.Theme.BackgroundColor == "" {
		cfg.Theme.BackgroundColor = defaultBackground
	}
	if cfg.SubmitTimeout <= 0 {
		cfg.SubmitTimeout = defaultSubmitTimeout
	}
	if cfg.IdleDelay <= 0 {
		cfg.IdleDelay = defaultIdleDelay
	}
	if cfg.Markers == nil {
		cfg.Markers = NewMemoryMarkers()
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Widget{
		cfg: cfg,
		client: &submitClient{
			endpoint: cfg.APIEndpoint,
			timeout:  cfg.SubmitTimeout,
			http:     cfg.HTTPClient,
		},
		log:        log,
		state:      StateIdle,
		stylesheet: fallbackStylesheet,
	}
}

// Init mounts the widget on the host. A missing container is logged and
// leaves the widget unmounted; it never faults the host. A stylesheet that
// fails to load falls back to the built-in style set.
func (w *Widget) Init(ctx context.Context, host Host) {
	surface, ok := host.Container(w.cfg.ContainerID)
	if !ok {
		w.log.Error("widget container not found", "container_id", w.cfg.ContainerID)
		return
	}

	stylesheet := w.loadStylesheet(ctx)

	w.mu.Lock()
	w.surface = surface
	w.stylesheet = stylesheet
	w.renderLocked()
	w.mu.Unlock()
}

// State returns the current lifecycle state.
func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// View returns the current render snapshot.
func (w *Widget) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.viewLocked()
}

// IsSubscribed reports the advisory device-local marker for this product.
// The server never consults it; it only suppresses re-showing the form.
func (w *Widget) IsSubscribed() bool {
	return w.cfg.Markers.Get(markerKey(w.cfg.Product.URL))
}

// Submit runs one subscription attempt. While a submission is in flight,
// further calls are no-ops. The call blocks until the attempt resolves; the
// later return to idle happens in the background.
func (w *Widget) Submit(ctx context.Context, rawEmail string) {
	w.mu.Lock()
	if w.state == StateSubmitting {
		w.mu.Unlock()
		return
	}

	w.generation++
	gen := w.generation

	trimmed := strings.TrimSpace(rawEmail)
	if trimmed == "" || !email.Valid(trimmed) {
		w.state = StateError
		w.message = msgInvalidEmail
		w.msgKind = "error"
		w.renderLocked()
		w.mu.Unlock()
		w.scheduleIdle(gen)
		return
	}

	w.state = StateSubmitting
	w.input = trimmed
	w.message = ""
	w.msgKind = ""
	w.renderLocked()
	w.mu.Unlock()

	result, err := w.client.submit(ctx, subscriptionRequest{Email: trimmed, Product: w.cfg.Product})

	var onSuccess func(ProductData)
	w.mu.Lock()
	switch {
	case err != nil:
		// Timeouts and refused connections are the same failure to the user.
		w.state = StateError
		w.message = msgNetworkError
		w.msgKind = "error"
	case result.OK:
		w.state = StateSuccess
		w.message = msgSuccess
		w.msgKind = "success"
		w.input = ""
		w.markSubscribed()
		onSuccess = w.cfg.OnSuccess
	default:
		w.state = StateError
		w.message = messageForCode(result.ErrorCode)
		w.msgKind = "error"
	}
	w.renderLocked()
	w.mu.Unlock()

	if onSuccess != nil {
		onSuccess(w.cfg.Product)
	}
	w.scheduleIdle(gen)
}

// scheduleIdle returns the widget to idle after the display delay, unless a
// newer submission has taken over in the meantime. The generation check keeps
// a stale timer from clobbering a newer submission's displayed state.
func (w *Widget) scheduleIdle(gen uint64) {
	time.AfterFunc(w.cfg.IdleDelay, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.generation != gen || w.state == StateSubmitting {
			return
		}
		w.state = StateIdle
		w.message = ""
		w.msgKind = ""
		w.renderLocked()
	})
}

func (w *Widget) markSubscribed() {
	if err := w.cfg.Markers.Set(markerKey(w.cfg.Product.URL)); err != nil {
		// Marker storage may be unavailable; the subscription itself stands.
		w.log.Warn("could not save subscription marker", "error", err)
	}
}

func messageForCode(code string) string {
	switch code {
	case "invalid_email":
		return msgInvalidEmail
	case "already_subscribed":
		return msgAlreadySubscribed
	case "server_error":
		return msgServerError
	default:
		return msgGenericError
	}
}

func (w *Widget) viewLocked() View {
	return View{
		State:       w.state,
		Message:     w.message,
		MessageKind: w.msgKind,
		Input:       w.input,
		Product:     w.cfg.Product,
		Theme:       w.cfg.Theme,
		Stylesheet:  w.stylesheet,
	}
}

func (w *Widget) renderLocked() {
	if w.surface == nil {
		return
	}
	w.surface.Render(w.viewLocked())
}
