package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`
	DatabaseURL string `env:"DATABASE_URL"`

	Auth     Auth     `envPrefix:"AUTH_"`
	PayU     PayU     `envPrefix:"PAYU_"`
	Razorpay Razorpay `envPrefix:"RAZORPAY_"`
}

// PayU holds the hosted-checkout credentials. MerchantSalt signs every
// outbound request and verifies every callback hash; WebhookSecret
// authenticates the server-to-server webhook independently of the payload
// hash. Neither value may ever be logged or sent over the wire.
type PayU struct {
	MerchantKey   string `env:"MERCHANT_KEY"`
	MerchantSalt  string `env:"MERCHANT_SALT"`
	BaseURL       string `env:"BASE_URL" envDefault:"https://test.payu.in/_payment"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
}

type Razorpay struct {
	KeyID     string `env:"KEY_ID"`
	KeySecret string `env:"KEY_SECRET"`
}

type Auth struct {
	JWTSecret string `env:"JWT_SECRET"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
