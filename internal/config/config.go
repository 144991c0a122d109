package config

import (
	"fmt"
	"time"
)

type Config struct {
	Env              string                  `env:"ENV,default=local"`
	Logger           LoggerConfig            `env:",prefix=LOGGER_"`
	Observability    ObservabilityHTTPConfig `env:",prefix=OBSERVABILITY_"`
	Panel            PanelHTTPConfig         `env:",prefix=PANEL_"`
	ShutdownDuration time.Duration           `env:"SHUTDOWN_DURATION,default=30s"`
	DB               SQLiteConfig            `env:",prefix=DB_"`
	Backend          HTTPClientConfig        `env:",prefix=BACKEND_"`
	Gateway          GatewayConfig           `env:",prefix=GATEWAY_"`
	Telegram         TelegramConfig          `env:",prefix=TELEGRAM_"`
	YooKassa         YooKassaConfig          `env:",prefix=YOOKASSA_"`
	Fees             FeesConfig              `env:",prefix=FEES_"`
	Auth             AuthConfig              `env:",prefix=AUTH_"`
	Toast            struct {
		TTL      time.Duration `env:"TTL,default=3s"`
		Language string        `env:"LANGUAGE,default=es"`
	} `env:",prefix=TOAST_"`
	Refresh struct {
		Interval time.Duration `env:"INTERVAL,default=5m"`
	} `env:",prefix=REFRESH_"`
}

type TelegramConfig struct {
	// Alerts are disabled when the token is empty.
	BotToken string  `env:"BOT_TOKEN"`
	AdminIDs []int64 `env:"ADMIN_IDS"`
}

type YooKassaConfig struct {
	ShopID    string `env:"SHOP_ID"`
	SecretKey string `env:"SECRET_KEY"`
	ReturnURL string `env:"RETURN_URL,default=https://example.com/payment/return"`
	Currency  string `env:"CURRENCY,default=RUB"`
}

func (y YooKassaConfig) Enabled() bool {
	return y.ShopID != "" && y.SecretKey != ""
}

type FeesConfig struct {
	WithdrawalPercent float64 `env:"WITHDRAWAL_PERCENT,default=4"`
}

type AuthConfig struct {
	AdminLogins []string `env:"ADMIN_LOGINS"`
}

type HTTPClientConfig struct {
	Scheme        string        `env:"SCHEME,default=http"`
	Host          string        `env:"HOST,default=127.0.0.1"`
	Port          uint16        `env:"PORT,default=8000"`
	Timeout       time.Duration `env:"TIMEOUT,default=30s"`
	MaxRetries    int           `env:"MAX_RETRIES,default=3"`
	RetryInterval time.Duration `env:"RETRY_INTERVAL,default=2s"`
	// Base64 PEM bundle, only used with SCHEME=https.
	CACert    string `env:"CA_CERT"`
	RateLimit struct {
		Burst int     `env:"BURST,default=0"`
		RPS   float64 `env:"RPS,default=20.0"`
	} `env:",prefix=RATE_LIMIT_"`
}

func (c HTTPClientConfig) ADDR() string {
	return fmt.Sprintf("%s://%s:%d", c.Scheme, c.Host, c.Port)
}

type GatewayConfig struct {
	Enabled     bool          `env:"ENABLED,default=true"`
	Scheme      string        `env:"SCHEME,default=http"`
	Host        string        `env:"HOST,default=127.0.0.1"`
	Port        uint16        `env:"PORT,default=8001"`
	Timeout     time.Duration `env:"TIMEOUT,default=30s"`
	CheckoutURL string        `env:"CHECKOUT_URL,default=https://pay.gateway.com/checkout/"`
}

func (c GatewayConfig) ADDR() string {
	return fmt.Sprintf("%s://%s:%d", c.Scheme, c.Host, c.Port)
}

type LoggerConfig struct {
	Level string `env:"LEVEL,default=debug"`
}

type ObservabilityHTTPConfig struct {
	Host         string        `env:"HOST,default=127.0.0.1"`
	Port         uint16        `env:"PORT,default=8383"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT,default=30s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT,default=30s"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT,default=1m"`
}

func (a ObservabilityHTTPConfig) ADDR() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

type PanelHTTPConfig struct {
	Host         string        `env:"HOST,default=0.0.0.0"`
	Port         uint16        `env:"PORT,default=8080"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT,default=30s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT,default=30s"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT,default=1m"`
}

func (a PanelHTTPConfig) ADDR() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

type SQLiteConfig struct {
	Path         string `env:"PATH,default=./data/panel.db"`
	MaxOpenConns int    `env:"MAX_OPEN_CONNS,default=1"`
	MaxIdleConns int    `env:"MAX_IDLE_CONNS,default=1"`
	MaxLifetime  string `env:"MAX_LIFETIME,default=5m"`
}
