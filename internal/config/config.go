package config

import "github.com/kelseyhightower/envconfig"

// Config holds application configuration loaded from environment variables.
type Config struct {
	HTTPAddr        string `envconfig:"ARBETSTID_HTTP_ADDR" default:":8080"`
	DBPath          string `envconfig:"ARBETSTID_DB_PATH" default:"arbetstid.db"`
	LogLevel        string `envconfig:"ARBETSTID_LOG_LEVEL" default:"info"` // debug|info|warn|error
	UserID          string `envconfig:"ARBETSTID_USER_ID"`                  // tags outgoing reminder messages
	VAPIDPublicKey  string `envconfig:"ARBETSTID_VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey string `envconfig:"ARBETSTID_VAPID_PRIVATE_KEY"`
	RelayEndpoint   string `envconfig:"ARBETSTID_RELAY_ENDPOINT" default:"https://email-server-production-a333.up.railway.app"`
	RelayAPIKey     string `envconfig:"ARBETSTID_RELAY_API_KEY"`
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
