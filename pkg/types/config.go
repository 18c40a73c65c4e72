package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	DatabaseURL     string `envconfig:"DATABASE_URL"`
	DatabaseSchema  string `envconfig:"DATABASE_SCHEMA" default:"volunteerhub"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`

	// Session
	CookieName       string `envconfig:"SESSION_COOKIE_NAME" default:"vh_session"`
	CookieSecure     bool   `envconfig:"SESSION_COOKIE_SECURE" default:"true"`
	SessionMaxAgeSec int    `envconfig:"SESSION_MAX_AGE_SEC" default:"604800"` // 7 days

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes

	// HS256 key used to sign session tokens (base64 encoded)
	TokenSigningKey string `envconfig:"TOKEN_SIGNING_KEY"`
	TokenIssuer     string `envconfig:"TOKEN_ISSUER" default:"volunteerhub"`

	// Project report documents
	S3BucketName      string `envconfig:"S3_BUCKET_NAME"`
	S3KeyPrefix       string `envconfig:"S3_KEY_PREFIX" default:"project-reports"`
	DocumentMaxBytes  int64  `envconfig:"DOCUMENT_MAX_BYTES" default:"10485760"` // 10 MiB
	DocumentURLTTLSec int    `envconfig:"DOCUMENT_URL_TTL_SEC" default:"900"`
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
