package widget

import "net/url"

// SuccessMessageType is the fixed type tag of the message sent to an
// embedding host page after a successful subscription.
const SuccessMessageType = "pdw-subscription-success"

// SuccessMessage is the one cross-document message an embedding host ever
// receives. The shape is a wire contract; do not extend it.
type SuccessMessage struct {
	Type    string      `json:"type"`
	Product ProductData `json:"product"`
}

// HostNotifier delivers the success message to the embedding page.
// Fire-and-forget: no acknowledgement and no retry.
type HostNotifier interface {
	Notify(SuccessMessage)
}

// ParseLaunchParams builds a widget config from the frame's launch
// parameters. When the widget runs embedded there is no page to scrape, so
// product data has to arrive this way.
func ParseLaunchParams(params url.Values) Config {
	product := ProductData{
		Name:  params.Get("name"),
		Price: params.Get("price"),
		URL:   params.Get("url"),
	}
	if product.Name == "" {
		product.Name = "Unknown Product"
	}
	if product.Price == "" {
		product.Price = "N/A"
	}

	return Config{
		APIEndpoint: params.Get("api"),
		Product:     product,
		Theme: Theme{
			AccentColor:     params.Get("accent"),
			BackgroundColor: params.Get("bg"),
		},
	}
}

// NewEmbedded constructs a widget for an embedded frame and wires its success
// path to the host notifier.
func NewEmbedded(params url.Values, notifier HostNotifier) *Widget {
	cfg := ParseLaunchParams(params)
	if notifier != nil {
		cfg.OnSuccess = func(product ProductData) {
			go notifier.Notify(SuccessMessage{Type: SuccessMessageType, Product: product})
		}
	}
	return New(cfg)
}
