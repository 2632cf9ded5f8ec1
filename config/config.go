package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Port      string          `mapstructure:"port"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	AI        AIConfig        `mapstructure:"ai"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Upload    UploadConfig    `mapstructure:"upload"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Mail      MailConfig      `mapstructure:"mail"`
}

type MongoConfig struct {
	URI      string `mapstructure:"MONGODB_URI"`
	Database string `mapstructure:"database"`
}

type AIConfig struct {
	Provider       string `mapstructure:"provider"`
	BaseURL        string `mapstructure:"base_url"`
	Model          string `mapstructure:"model"`
	APIKey         string `mapstructure:"AI_API_KEY"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type JWTConfig struct {
	AccessSecret     string `mapstructure:"JWT_ACCESS_SECRET"`
	RefreshSecret    string `mapstructure:"JWT_REFRESH_SECRET"`
	AccessTTLMinutes int    `mapstructure:"access_ttl_minutes"`
	RefreshTTLDays   int    `mapstructure:"refresh_ttl_days"`
}

type UploadConfig struct {
	MaxSizeMB int64 `mapstructure:"max_size_mb"`
}

type RateLimitConfig struct {
	RegisterPerFiveMinutes int `mapstructure:"register_per_five_minutes"`
	LoginPerMinute         int `mapstructure:"login_per_minute"`
	APIPerMinute           int `mapstructure:"api_per_minute"`
}

type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"MAIL_PASSWORD"`
	From     string `mapstructure:"from"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.BindEnv("mongo.MONGODB_URI", "MONGODB_URI")
	v.BindEnv("ai.AI_API_KEY", "AI_API_KEY")
	v.BindEnv("jwt.JWT_ACCESS_SECRET", "JWT_ACCESS_SECRET")
	v.BindEnv("jwt.JWT_REFRESH_SECRET", "JWT_REFRESH_SECRET")
	v.BindEnv("mail.MAIL_PASSWORD", "MAIL_PASSWORD")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}
