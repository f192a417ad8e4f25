package config

import (
	"log/slog"
	"time"

	"github.com/esticore/auth-api/internal/models"
	"github.com/spf13/viper"
)

type Config struct {
	DBUrl     string `mapstructure:"DB_URL"`
	Port      string `mapstructure:"PORT"`
	JWTSecret string `mapstructure:"JWT_SECRET"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	FromEmail    string `mapstructure:"FROM_EMAIL"`
	FrontendURL  string `mapstructure:"FRONTEND_URL"`

	OTPExpireMinutes      int `mapstructure:"OTP_EXPIRE_MINUTES"`
	LegacyLinkExpireHours int `mapstructure:"LEGACY_LINK_EXPIRE_HOURS"`
	OTPLength             int `mapstructure:"OTP_LENGTH"`
}

// OTPExpiry returns the short code validity window.
func (c Config) OTPExpiry() time.Duration {
	return time.Duration(c.OTPExpireMinutes) * time.Minute
}

// LegacyLinkExpiry returns the legacy link token validity window.
func (c Config) LegacyLinkExpiry() time.Duration {
	return time.Duration(c.LegacyLinkExpireHours) * time.Hour
}

func LoadConfig() (Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("OTP_EXPIRE_MINUTES", models.DefaultOTPExpireMinutes)
	viper.SetDefault("LEGACY_LINK_EXPIRE_HOURS", models.DefaultLegacyLinkExpireHours)
	viper.SetDefault("OTP_LENGTH", models.DefaultOTPLength)

	if err := viper.ReadInConfig(); err != nil {
		slog.Info("no .env file found, using env variables only")
	}

	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}
