// Command subscribe drives the price-drop widget from a terminal. It walks
// the same state machine the embedded widget uses, keeps its device markers
// in a JSON file, and exits non-zero when the attempt ends in an error state.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pricedrop/notifier/pkg/widget"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "no .env file loaded:", err)
	}
	v := viper.New()
	v.AutomaticEnv()

	endpoint := flag.String("endpoint", strings.TrimSpace(v.GetString("PDW_ENDPOINT")), "Notifier base URL (or PDW_ENDPOINT)")
	emailAddr := flag.String("email", "", "Email address to subscribe")
	productName := flag.String("product-name", "Unknown Product", "Product name")
	productPrice := flag.String("product-price", "N/A", "Product display price")
	productURL := flag.String("product-url", "", "Product page URL")
	markersPath := flag.String("markers", ".pdw_markers.json", "Path of the device marker file")
	timeout := flag.Duration("timeout", 30*time.Second, "Submission timeout")
	force := flag.Bool("force", false, "Submit even when a device marker exists")
	flag.Parse()

	if strings.TrimSpace(*endpoint) == "" {
		exitErr("endpoint is required (or set PDW_ENDPOINT)")
	}
	if strings.TrimSpace(*emailAddr) == "" {
		exitErr("email is required")
	}

	w := widget.New(widget.Config{
		APIEndpoint: strings.TrimRight(strings.TrimSpace(*endpoint), "/") + "/subscribe-price-drop",
		Product: widget.ProductData{
			Name:  strings.TrimSpace(*productName),
			Price: strings.TrimSpace(*productPrice),
			URL:   strings.TrimSpace(*productURL),
		},
		SubmitTimeout: *timeout,
		Markers:       widget.NewFileMarkers(*markersPath),
	})

	if w.IsSubscribed() && !*force {
		fmt.Printf("Already subscribed to %s on this device (use -force to submit anyway)\n", *productName)
		return
	}

	w.Init(context.Background(), terminalHost{})
	w.Submit(context.Background(), *emailAddr)

	if w.State() != widget.StateSuccess {
		os.Exit(1)
	}
}

// terminalHost mounts every container id on stdout.
type terminalHost struct{}

func (terminalHost) Container(string) (widget.Surface, bool) {
	return terminalSurface{}, true
}

// terminalSurface prints state transitions instead of drawing a form.
type terminalSurface struct{}

func (terminalSurface) Render(view widget.View) {
	switch view.State {
	case widget.StateSubmitting:
		fmt.Printf("Subscribing to %s (%s)...\n", view.Product.Name, view.Product.Price)
	case widget.StateSuccess:
		fmt.Println(view.Message)
	case widget.StateError:
		fmt.Fprintln(os.Stderr, view.Message)
	}
}

func exitErr(message string) {
	fmt.Fprintln(os.Stderr, message)
	os.Exit(1)
}
