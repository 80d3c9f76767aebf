package types

type Config struct {
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint     `envconfig:"SERVER_PORT" default:"8080"`
	DatabaseURL     string   `envconfig:"DATABASE_URL"`
	DatabaseSchema  string   `envconfig:"DATABASE_SCHEMA" default:"relief"`
	ReadTimeoutSec  uint     `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint     `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`
	LogLevel        string   `envconfig:"LOG_LEVEL" default:"info"`
	CORSOrigins     []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`

	// Cognito Auth
	CognitoUserPoolID string `envconfig:"COGNITO_USER_POOL_ID"`
	CognitoClientID   string `envconfig:"COGNITO_CLIENT_ID"`
	CognitoIssuerURL  string `envconfig:"COGNITO_ISSUER_URL"`

	// Auth Configuration
	CookieName       string `envconfig:"SESSION_COOKIE_NAME" default:"relief_session"`
	SessionMaxAgeSec int    `envconfig:"SESSION_MAX_AGE_SEC" default:"3600"`

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes

	// Donations
	StripeSecretKey    string `envconfig:"STRIPE_SECRET_KEY"`
	DonationCurrency   string `envconfig:"DONATION_CURRENCY" default:"usd"`
	DonationSuccessURL string `envconfig:"DONATION_SUCCESS_URL" default:"http://localhost:5173/donate/thanks"`
	DonationCancelURL  string `envconfig:"DONATION_CANCEL_URL" default:"http://localhost:5173/donate"`

	// Inventory snapshots
	SnapshotBucket string `envconfig:"SNAPSHOT_BUCKET"`
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
