package routes

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pricedrop/notifier/internal/registry"
	"github.com/pricedrop/notifier/views"
)

// SubscriptionRoutes wires the subscription intake and the operator reads.
type SubscriptionRoutes struct {
	service *registry.Service
}

// NewSubscriptionRoutes constructs subscription routes.
func NewSubscriptionRoutes(service *registry.Service) *SubscriptionRoutes {
	return &SubscriptionRoutes{service: service}
}

// RegisterRoutes registers subscription endpoints.
func (s *SubscriptionRoutes) RegisterRoutes(e *echo.Echo) {
	e.POST("/subscribe-price-drop", s.handleSubscribe)
	e.GET("/subscriptions", s.handleList)
	e.GET("/subscriptions/view", s.handleView)
}

type subscribeRequest struct {
	Email   string           `json:"email"`
	Product registry.Product `json:"product"`
}

type subscribeResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type listResponse struct {
	Count         int               `json:"count"`
	Subscriptions []registry.Record `json:"subscriptions"`
}

func (s *SubscriptionRoutes) handleSubscribe(c echo.Context) error {
	var req subscribeRequest
	if err := c.Bind(&req); err != nil {
		// A malformed body is handled like a missing one: the empty email
		// fails validation below.
		req = subscribeRequest{}
	}

	_, err := s.service.Subscribe(c.Request().Context(), req.Email, req.Product)
	if err != nil {
		kind := registry.ClassifyError(err)
		switch kind {
		case registry.ErrorInvalidEmail:
			return c.JSON(http.StatusBadRequest, subscribeResponse{Error: string(kind)})
		case registry.ErrorAlreadySubscribed:
			return c.JSON(http.StatusConflict, subscribeResponse{Error: string(kind)})
		default:
			slog.Error("subscription intake failed", "error", err)
			return c.JSON(http.StatusInternalServerError, subscribeResponse{Error: string(kind)})
		}
	}

	return c.JSON(http.StatusOK, subscribeResponse{OK: true})
}

func (s *SubscriptionRoutes) handleList(c echo.Context) error {
	records, err := s.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	if records == nil {
		records = []registry.Record{}
	}
	return c.JSON(http.StatusOK, listResponse{Count: len(records), Subscriptions: records})
}

func (s *SubscriptionRoutes) handleView(c echo.Context) error {
	records, err := s.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "subscriptions", views.SubscriptionsPage(records))
}
