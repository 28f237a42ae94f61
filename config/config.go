package config

import (
	"time"

	clowder "github.com/redhatinsights/app-common-go/pkg/api/v1"

	"github.com/spf13/viper"
)

// SackliteConfig represents the runtime configuration
type SackliteConfig struct {
	Hostname    string
	WebPort     int
	MetricsPort int
	LogLevel    string
	Debug       bool
	SentryDSN   string

	// BasePath prefixes every game server route, and is stripped before digests are computed
	BasePath        string
	AutodiscoverURL string

	DigestKey               string
	VerifyClientDigest      bool
	VerifyNpTicketSignature bool
	VerifyNpTicketExpiry    bool

	// SessionSecretKey is base64; empty means a random key per process
	SessionSecretKey string
	SessionTTL       time.Duration

	EULA                string
	Announcement        string
	NetworkSettingsPath string
}

var config *SackliteConfig

// Init configuration for service
func Init() {
	options := viper.New()
	options.SetDefault("WebPort", 10050)
	options.SetDefault("MetricsPort", 9000)
	options.SetDefault("LogLevel", "INFO")
	options.SetDefault("Debug", false)
	options.SetDefault("BasePath", "/LITTLEBIGPLANETPS3_XML")
	options.SetDefault("AutodiscoverURL", "http://localhost:10050/LITTLEBIGPLANETPS3_XML")
	options.SetDefault("DigestKey", "")
	options.SetDefault("VerifyClientDigest", true)
	options.SetDefault("VerifyNpTicketSignature", true)
	options.SetDefault("VerifyNpTicketExpiry", true)
	options.SetDefault("SessionSecretKey", "")
	options.SetDefault("SessionTTL", time.Hour)
	options.SetDefault("EULA", "")
	options.SetDefault("Announcement", "")
	options.SetDefault("NetworkSettingsPath", "")
	options.AutomaticEnv()

	if options.GetBool("Debug") {
		options.Set("LogLevel", "DEBUG")
	}

	kubenv := viper.New()
	kubenv.AutomaticEnv()

	config = &SackliteConfig{
		Hostname:                kubenv.GetString("Hostname"),
		WebPort:                 options.GetInt("WebPort"),
		MetricsPort:             options.GetInt("MetricsPort"),
		LogLevel:                options.GetString("LogLevel"),
		Debug:                   options.GetBool("Debug"),
		SentryDSN:               options.GetString("SentryDSN"),
		BasePath:                options.GetString("BasePath"),
		AutodiscoverURL:         options.GetString("AutodiscoverURL"),
		DigestKey:               options.GetString("DigestKey"),
		VerifyClientDigest:      options.GetBool("VerifyClientDigest"),
		VerifyNpTicketSignature: options.GetBool("VerifyNpTicketSignature"),
		VerifyNpTicketExpiry:    options.GetBool("VerifyNpTicketExpiry"),
		SessionSecretKey:        options.GetString("SessionSecretKey"),
		SessionTTL:              options.GetDuration("SessionTTL"),
		EULA:                    options.GetString("EULA"),
		Announcement:            options.GetString("Announcement"),
		NetworkSettingsPath:     options.GetString("NetworkSettingsPath"),
	}

	if clowder.IsClowderEnabled() {
		cfg := clowder.LoadedConfig

		config.WebPort = *cfg.PublicPort
		config.MetricsPort = cfg.MetricsPort
	}
}

// Get returns an initialized SackliteConfig
func Get() *SackliteConfig {
	return config
}

// DigestEnabled reports whether responses are stamped and requests checked at all
func (c *SackliteConfig) DigestEnabled() bool {
	return c.DigestKey != ""
}
