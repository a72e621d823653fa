package server

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"koelnr-payments/internal/handler"
	"koelnr-payments/internal/middleware"
)

type Server struct {
	echo                *echo.Echo
	jwtSecret           string
	paymentHandler      *handler.PaymentHandler
	orderHandler        *handler.OrderHandler
	subscriptionHandler *handler.SubscriptionHandler
}

func NewServer(
	jwtSecret string,
	paymentHandler *handler.PaymentHandler,
	orderHandler *handler.OrderHandler,
	subscriptionHandler *handler.SubscriptionHandler,
) *Server {
	e := echo.New()

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	s := &Server{
		echo:                e,
		jwtSecret:           jwtSecret,
		paymentHandler:      paymentHandler,
		orderHandler:        orderHandler,
		subscriptionHandler: subscriptionHandler,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	auth := middleware.JWTAuth(s.jwtSecret)

	// -------- checkout --------
	payments := api.Group("/payments")
	payments.POST("/orders", s.paymentHandler.CreateOrder, auth)
	payments.POST("/checkout", s.paymentHandler.Checkout, auth)
	payments.POST("/razorpay/orders", s.paymentHandler.CreateRazorpayOrder, auth)
	payments.POST("/razorpay/verify", s.paymentHandler.VerifyRazorpayPayment, auth)

	// -------- gateway callbacks (hash-authenticated, no session) --------
	payments.POST("/success", s.paymentHandler.HandleSuccess)
	payments.POST("/failure", s.paymentHandler.HandleFailure)
	payments.POST("/webhook", s.paymentHandler.HandleWebhook)

	// -------- customer reads --------
	api.GET("/orders", s.orderHandler.ListOrders, auth)
	api.GET("/orders/:orderID", s.orderHandler.GetOrder, auth)
	api.GET("/subscriptions/active", s.subscriptionHandler.GetActive, auth)
	api.POST("/subscriptions/:subscriptionID/cancel", s.subscriptionHandler.Cancel, auth)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
