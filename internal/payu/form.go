package payu

import (
	"bytes"
	"html/template"

	"koelnr-payments/internal/config"
)

// Gateway wraps the merchant credentials and callback URLs for the hosted
// checkout flow. Constructed once at startup from config; immutable after.
type Gateway struct {
	merchantKey string
	salt        string
	baseURL     string
	successURL  string
	failureURL  string
}

func NewGateway(cfg *config.PayU, appBaseURL string) *Gateway {
	return &Gateway{
		merchantKey: cfg.MerchantKey,
		salt:        cfg.MerchantSalt,
		baseURL:     cfg.BaseURL,
		successURL:  appBaseURL + "/api/payments/success",
		failureURL:  appBaseURL + "/api/payments/failure",
	}
}

// CheckoutOrder is the order metadata carried across the redirect boundary.
// OrderID, OrderType, PlanName, VehicleType and UserID travel in the
// gateway's opaque UDF pass-through fields and come back on every callback.
type CheckoutOrder struct {
	TxnID       string
	Amount      string // "648.00"
	ProductInfo string
	FirstName   string
	Email       string
	Phone       string
	OrderID     string
	OrderType   string
	PlanName    string
	VehicleType string
	UserID      string
}

// BuildCheckoutForm assembles the complete signed field set for the hosted
// checkout form post. By the time this runs the order already exists; no
// validation happens here.
func (g *Gateway) BuildCheckoutForm(o CheckoutOrder) (string, map[string]string) {
	hash := RequestHash(RequestParams{
		Key:         g.merchantKey,
		TxnID:       o.TxnID,
		Amount:      o.Amount,
		ProductInfo: o.ProductInfo,
		FirstName:   o.FirstName,
		Email:       o.Email,
		UDF1:        o.OrderID,
		UDF2:        o.OrderType,
		UDF3:        o.PlanName,
		UDF4:        o.VehicleType,
		UDF5:        o.UserID,
	}, g.salt)

	fields := map[string]string{
		"key":         g.merchantKey,
		"txnid":       o.TxnID,
		"amount":      o.Amount,
		"productinfo": o.ProductInfo,
		"firstname":   o.FirstName,
		"email":       o.Email,
		"phone":       o.Phone,
		"surl":        g.successURL,
		"furl":        g.failureURL,
		"hash":        hash,
		"udf1":        o.OrderID,
		"udf2":        o.OrderType,
		"udf3":        o.PlanName,
		"udf4":        o.VehicleType,
		"udf5":        o.UserID,
	}
	return g.baseURL, fields
}

// Verify checks a callback payload against the merchant salt.
func (g *Gateway) Verify(r CallbackResponse) bool {
	return VerifyResponseHash(r, g.salt)
}

var checkoutPageTmpl = template.Must(template.New("checkout").Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<title>Redirecting to payment</title>
	<style>
		body {
			font-family: Arial, sans-serif;
			text-align: center;
			margin-top: 80px;
		}
	</style>
</head>
<body>
	<h2>Redirecting to secure payment…</h2>
	<p>Please wait, do not press back or refresh.</p>

	<form id="payu-form" method="POST" action="{{.Action}}">
		{{- range $name, $value := .Fields}}
		<input type="hidden" name="{{$name}}" value="{{$value}}">
		{{- end}}
	</form>

	<script>
		document.getElementById("payu-form").submit();
	</script>
</body>
</html>
`))

// CheckoutPage renders the auto-submitting form-post page that hands the
// browser to the gateway. Always a POST so payment fields never land in
// browser history or access logs.
func CheckoutPage(action string, fields map[string]string) (string, error) {
	var buf bytes.Buffer
	err := checkoutPageTmpl.Execute(&buf, struct {
		Action string
		Fields map[string]string
	}{Action: action, Fields: fields})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
