package config

import (
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server       ServerConfig
	MongoDB      MongoDBConfig
	JWT          JWTConfig
	Telnyx       TelnyxConfig
	Conversation ConversationConfig
	Scheduler    SchedulerConfig
	Dispatch     DispatchConfig
	LogLevel     string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int // seconds
}

// TelnyxConfig holds Telnyx messaging API configuration
type TelnyxConfig struct {
	BaseURL string
	APIKey  string
	MockSMS bool
}

// ConversationConfig holds the inbound SMS conversation policy
type ConversationConfig struct {
	PromoKeyword      string // token that requests a coupon, e.g. "DRINK"
	SupportContact    string // shown in the HELP reply
	CouponTTLMinutes  int
	CouponType        string
	MinimumAge        int  // 0 disables the underage rejection reply
	ReplyOnUnverified bool // reply when a birthdate submission doesn't parse
}

// SlotTime is a fire time for one daily slot sweep
type SlotTime struct {
	Hour   int
	Minute int
}

// SchedulerConfig holds time-slot and sweep configuration
type SchedulerConfig struct {
	Timezone           string
	AfternoonStartHour int // slot boundary: hours below this are "morning"
	EveningStartHour   int // hours at or above this are "evening"
	Morning            SlotTime
	Afternoon          SlotTime
	Evening            SlotTime
}

// DispatchConfig holds blast dispatch tunables
type DispatchConfig struct {
	MaxConcurrency     int
	SendTimeoutSeconds int
	ProhibitedWords    []string
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional; environment variables still apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "lastcall")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("LogLevel", "info")
	viper.SetDefault("Telnyx.BaseURL", "https://api.telnyx.com/v2")
	viper.SetDefault("Telnyx.MockSMS", true)
	viper.SetDefault("Conversation.PromoKeyword", "DRINK")
	viper.SetDefault("Conversation.SupportContact", "support@lastcall.app")
	viper.SetDefault("Conversation.CouponTTLMinutes", 10)
	viper.SetDefault("Conversation.CouponType", "welcome")
	viper.SetDefault("Conversation.MinimumAge", 21)
	viper.SetDefault("Conversation.ReplyOnUnverified", false)
	viper.SetDefault("Scheduler.Timezone", "America/New_York")
	viper.SetDefault("Scheduler.AfternoonStartHour", 12)
	viper.SetDefault("Scheduler.EveningStartHour", 17)
	viper.SetDefault("Scheduler.Morning.Hour", 10)
	viper.SetDefault("Scheduler.Morning.Minute", 0)
	viper.SetDefault("Scheduler.Afternoon.Hour", 15)
	viper.SetDefault("Scheduler.Afternoon.Minute", 0)
	viper.SetDefault("Scheduler.Evening.Hour", 20)
	viper.SetDefault("Scheduler.Evening.Minute", 0)
	viper.SetDefault("Dispatch.MaxConcurrency", 10)
	viper.SetDefault("Dispatch.SendTimeoutSeconds", 30)
	viper.SetDefault("Dispatch.ProhibitedWords", []string{})
}
