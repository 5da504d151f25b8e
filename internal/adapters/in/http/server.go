package http

import (
	"errors"
	"net/http"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server is the storefront-facing HTTP boundary. It accepts checkout
// requests and serves the order read models; everything operator-side
// goes through the chat channel instead.
type Server struct {
	// Command handlers
	createOrderHandler   commands.CreateOrderCommandHandler
	patchCustomerHandler commands.PatchCustomerCommandHandler

	// Query handlers
	getOrderHandler   queries.GetOrderQueryHandler
	listOrdersHandler queries.ListOrdersQueryHandler
}

// NewServer creates an HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	patchCustomerHandler commands.PatchCustomerCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	listOrdersHandler queries.ListOrdersQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:   createOrderHandler,
		patchCustomerHandler: patchCustomerHandler,
		getOrderHandler:      getOrderHandler,
		listOrdersHandler:    listOrdersHandler,
	}
}

// RegisterRoutes mounts the API on an echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)
	e.POST("/api/v1/orders", s.CreateOrder)
	e.GET("/api/v1/orders", s.ListOrders)
	e.GET("/api/v1/orders/:id", s.GetOrder)
	e.PATCH("/api/v1/orders/:id/customer", s.PatchCustomer)
}

// errorResponse is the JSON error envelope of every non-2xx reply.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type addressRequest struct {
	Kind      string `json:"kind"`
	City      string `json:"city,omitempty"`
	Street    string `json:"street,omitempty"`
	Building  string `json:"building,omitempty"`
	Apartment string `json:"apartment,omitempty"`
	Carrier   string `json:"carrier,omitempty"`
	Branch    int    `json:"branch,omitempty"`
}

type lineRequest struct {
	ProductRef string `json:"productRef"`
	Name       string `json:"name"`
	Qty        int    `json:"qty"`
	UnitPrice  int64  `json:"unitPrice"`
}

type createOrderRequest struct {
	BuyerID       string         `json:"buyerId"`
	Lines         []lineRequest  `json:"lines"`
	Total         int64          `json:"total"`
	Address       addressRequest `json:"address"`
	CustomerName  string         `json:"customerName"`
	CustomerPhone string         `json:"customerPhone"`
	CustomerEmail string         `json:"customerEmail,omitempty"`
	Notes         string         `json:"notes,omitempty"`
	PromoCode     string         `json:"promoCode,omitempty"`
}

type createOrderResponse struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// Health handles GET /health - liveness probe.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CreateOrder handles POST /api/v1/orders - the checkout boundary.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req createOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commandFromRequest(req)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid checkout data: " + err.Error(),
		})
	}

	orderID, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrTotalMismatch),
			errors.Is(err, errs.ErrValueIsInvalid):
			return ctx.JSON(http.StatusUnprocessableEntity, errorResponse{
				Code:    http.StatusUnprocessableEntity,
				Message: "Checkout rejected: " + err.Error(),
			})
		case errors.Is(err, commands.ErrTooManyPromoAttempts):
			return ctx.JSON(http.StatusTooManyRequests, errorResponse{
				Code:    http.StatusTooManyRequests,
				Message: "Too many promo attempts, try again later",
			})
		default:
			return ctx.JSON(http.StatusInternalServerError, errorResponse{
				Code:    http.StatusInternalServerError,
				Message: "Failed to create order",
			})
		}
	}

	return ctx.JSON(http.StatusCreated, createOrderResponse{
		OrderID: orderID.String(),
		Status:  order.Pending.String(),
	})
}

// GetOrder handles GET /api/v1/orders/:id - a single order read model.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.OrderIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	response, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return ctx.JSON(http.StatusNotFound, errorResponse{
				Code:    http.StatusNotFound,
				Message: "Order not found",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve order",
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

type patchCustomerRequest struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

type patchCustomerResponse struct {
	Updated bool `json:"updated"`
}

// PatchCustomer handles PATCH /api/v1/orders/:id/customer - late-arriving
// customer metadata. Omitted fields are left untouched.
func (s *Server) PatchCustomer(ctx echo.Context) error {
	orderID, err := kernel.OrderIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	var req patchCustomerRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewPatchCustomerCommand(orderID, order.CustomerPatch{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
		Notes: req.Notes,
	})
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid patch: " + err.Error(),
		})
	}

	updated, err := s.patchCustomerHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return ctx.JSON(http.StatusNotFound, errorResponse{
				Code:    http.StatusNotFound,
				Message: "Order not found",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to update order",
		})
	}

	return ctx.JSON(http.StatusOK, patchCustomerResponse{Updated: updated})
}

// ListOrders handles GET /api/v1/orders - all orders, newest first.
func (s *Server) ListOrders(ctx echo.Context) error {
	query := queries.NewListOrdersQuery()

	orders, err := s.listOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve orders",
		})
	}

	return ctx.JSON(http.StatusOK, orders)
}

func commandFromRequest(req createOrderRequest) (commands.CreateOrderCommand, error) {
	buyerID, err := kernel.UUIDFromString(req.BuyerID)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	lines := make([]order.Line, 0, len(req.Lines))
	for _, l := range req.Lines {
		unitPrice, priceErr := kernel.NewMoney(l.UnitPrice)
		if priceErr != nil {
			return commands.CreateOrderCommand{}, priceErr
		}
		line, lineErr := order.NewLine(l.ProductRef, l.Name, l.Qty, unitPrice)
		if lineErr != nil {
			return commands.CreateOrderCommand{}, lineErr
		}
		lines = append(lines, line)
	}

	total, err := kernel.NewMoney(req.Total)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	address, err := addressFromRequest(req.Address)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	return commands.NewCreateOrderCommand(
		buyerID, lines, total, address,
		req.CustomerName, req.CustomerPhone, req.CustomerEmail,
		req.Notes, req.PromoCode,
	)
}

func addressFromRequest(req addressRequest) (kernel.Address, error) {
	kind, err := kernel.AddressKindFromString(req.Kind)
	if err != nil {
		return kernel.Address{}, err
	}
	if kind == kernel.AddressPickupPoint {
		return kernel.NewPickupPointAddress(req.Carrier, req.Branch)
	}
	return kernel.NewStreetAddress(req.City, req.Street, req.Building, req.Apartment)
}
