package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	API       APIConfig
	Share     ShareConfig
	Redeem    RedeemConfig
	Wheel     WheelConfig
	Countdown CountdownConfig
	Tracking  TrackingConfig
	Stub      StubConfig
	Locale    string
	LogFile   string
	// OpenCommand launches outbound links, e.g. "xdg-open". Empty prints them only.
	OpenCommand string
}

// APIConfig holds the remote prize API configuration
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// ShareConfig holds the social share dialog configuration
type ShareConfig struct {
	LandingURL string
	Quote      string
}

// RedeemConfig holds the messaging deep link configuration
type RedeemConfig struct {
	WhatsAppNumber string
}

// WheelConfig holds the wheel animation configuration
type WheelConfig struct {
	Duration      time.Duration
	Spins         int
	FrameInterval time.Duration
}

// CountdownConfig holds the prize countdown configuration
type CountdownConfig struct {
	Interval time.Duration
}

// TrackingConfig holds the analytics sink configuration
type TrackingConfig struct {
	Enabled    bool
	MongoURI   string
	Database   string
	Collection string
}

// StubConfig holds the development stub API configuration
type StubConfig struct {
	Port         string
	AllowedHosts []string
	InitialSpins int
	ShareBonus   int
	PrizeTTL     time.Duration
}

// Load loads configuration from a .env file, environment variables and config files
func Load(path string) (*Config, error) {
	if err := LoadDotEnv(path); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvPrefix("RULETA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")

	return &cfg, nil
}

// setDefaults sets default values for configuration.
// Every key needs a default so AutomaticEnv can resolve it on Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("API.BaseURL", "https://ruletabackcardroid.vercel.app")
	v.SetDefault("API.Timeout", 10*time.Second)
	v.SetDefault("Share.LandingURL", "https://ruletacardroid.vercel.app/")
	v.SetDefault("Share.Quote", "LLEVATE UNA RADIO 100% GRATIS CON LA RULETA CARDROID")
	v.SetDefault("Redeem.WhatsAppNumber", "51932426069")
	v.SetDefault("Wheel.Duration", 6*time.Second)
	v.SetDefault("Wheel.Spins", 8)
	v.SetDefault("Wheel.FrameInterval", 100*time.Millisecond)
	v.SetDefault("Countdown.Interval", time.Second)
	v.SetDefault("Tracking.Enabled", false)
	v.SetDefault("Tracking.MongoURI", "mongodb://localhost:27017")
	v.SetDefault("Tracking.Database", "ruleta")
	v.SetDefault("Tracking.Collection", "tracking_events")
	v.SetDefault("Stub.Port", "4000")
	v.SetDefault("Stub.AllowedHosts", []string{"*"})
	v.SetDefault("Stub.InitialSpins", 3)
	v.SetDefault("Stub.ShareBonus", 3)
	v.SetDefault("Stub.PrizeTTL", 7*24*time.Hour)
	v.SetDefault("Locale", "es-PE")
	v.SetDefault("LogFile", "")
	v.SetDefault("OpenCommand", "")
}
