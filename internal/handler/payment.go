package handler

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"koelnr-payments/internal/dto"
	"koelnr-payments/internal/payu"
	"koelnr-payments/internal/service"
)

type PaymentHandler struct {
	paymentService  service.PaymentService
	razorpayService service.RazorpayService
	appBaseURL      string
	webhookSecret   string
	logger          *zap.Logger
}

func NewPaymentHandler(
	paymentService service.PaymentService,
	razorpayService service.RazorpayService,
	appBaseURL string,
	webhookSecret string,
	logger *zap.Logger,
) *PaymentHandler {
	return &PaymentHandler{
		paymentService:  paymentService,
		razorpayService: razorpayService,
		appBaseURL:      appBaseURL,
		webhookSecret:   webhookSecret,
		logger:          logger,
	}
}

func userIDFromContext(c echo.Context) (string, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "not signed in")
	}
	return userID, nil
}

func (h *PaymentHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	result, err := h.paymentService.CreateOrder(ctx, userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOrder) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// Checkout creates the order and hands back the auto-submitting form-post
// page that forwards the browser to the gateway's hosted checkout.
func (h *PaymentHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	result, err := h.paymentService.CreateOrder(ctx, userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOrder) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}

	page, err := payu.CheckoutPage(result.GatewayURL, result.Fields)
	if err != nil {
		return err
	}

	return c.HTML(http.StatusOK, page)
}

func (h *PaymentHandler) failureRedirect(c echo.Context, marker string) error {
	return c.Redirect(http.StatusFound,
		h.appBaseURL+"/dashboard/payments/failure?error="+url.QueryEscape(marker))
}

// HandleSuccess is the browser-redirect success callback from the gateway.
func (h *PaymentHandler) HandleSuccess(c echo.Context) error {
	ctx := c.Request().Context()

	form, err := c.FormParams()
	if err != nil {
		return h.failureRedirect(c, "processing_error")
	}

	result, err := h.paymentService.HandleSuccess(ctx, form)
	if err != nil {
		if errors.Is(err, service.ErrInvalidHash) {
			return h.failureRedirect(c, "invalid_hash")
		}
		h.logger.Error("success callback failed", zap.Error(err))
		return h.failureRedirect(c, "processing_error")
	}

	return c.Redirect(http.StatusFound,
		h.appBaseURL+"/dashboard/payments/success?orderId="+url.QueryEscape(result.OrderID))
}

// HandleFailure is the browser-redirect failure callback. A tampered hash
// gets the generic invalid_hash marker, never the gateway's error text.
func (h *PaymentHandler) HandleFailure(c echo.Context) error {
	ctx := c.Request().Context()

	form, err := c.FormParams()
	if err != nil {
		return h.failureRedirect(c, "unknown_error")
	}

	_, reason, err := h.paymentService.HandleFailure(ctx, form)
	if err != nil {
		if errors.Is(err, service.ErrInvalidHash) {
			return h.failureRedirect(c, "invalid_hash")
		}
		h.logger.Error("failure callback failed", zap.Error(err))
		return h.failureRedirect(c, "unknown_error")
	}

	return h.failureRedirect(c, reason)
}

// HandleWebhook is the async server-to-server notification. The bearer
// secret is checked before anything else; an unauthenticated request never
// reaches the order store.
func (h *PaymentHandler) HandleWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	if h.webhookSecret == "" {
		h.logger.Error("webhook secret not configured")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server configuration error"})
	}

	authHeader := c.Request().Header.Get("Authorization")
	expected := "Bearer " + h.webhookSecret
	if subtle.ConstantTimeCompare([]byte(authHeader), []byte(expected)) != 1 {
		h.logger.Warn("webhook rejected, bad bearer secret")
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	form, err := c.FormParams()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid payload"})
	}

	if _, err := h.paymentService.HandleWebhook(ctx, form); err != nil {
		if errors.Is(err, service.ErrInvalidHash) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid hash"})
		}
		h.logger.Error("webhook processing failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Processing failed"})
	}

	// 200 regardless of applied/no-op; gateways stop retrying on 2xx.
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (h *PaymentHandler) CreateRazorpayOrder(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	result, err := h.razorpayService.CreateOrder(ctx, userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOrder) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *PaymentHandler) VerifyRazorpayPayment(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	var req dto.RazorpayVerifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if strings.TrimSpace(req.RazorpaySignature) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing signature")
	}

	result, err := h.razorpayService.VerifyPayment(ctx, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidHash):
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payment signature")
		case errors.Is(err, service.ErrOrderNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"order_id": result.OrderID,
	})
}
