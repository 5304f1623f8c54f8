package config

import (
	"os"
	"time"

	"pickem-app-go/cache"
	"pickem-app-go/database"
	"pickem-app-go/logging"
	"pickem-app-go/models"
	"pickem-app-go/services"
)

// ToDatabaseConfig converts Config to database.Config
func (c *Config) ToDatabaseConfig() database.Config {
	return database.Config{
		Host:     c.Database.Host,
		Port:     c.Database.Port,
		Username: c.Database.Username,
		Password: c.Database.Password,
		Database: c.Database.Database,
		Timeout:  c.Database.Timeout,
	}
}

// ToLoggingConfig converts Config to logging.Config
func (c *Config) ToLoggingConfig() logging.Config {
	return logging.Config{
		Level:       c.Logging.Level,
		Output:      os.Stdout,
		Prefix:      c.Logging.Prefix,
		EnableColor: c.Logging.EnableColor,
	}
}

// ToCacheConfig converts Config to cache.Config
func (c *Config) ToCacheConfig() cache.Config {
	return cache.Config{
		Addr:     c.Cache.Addr,
		Password: c.Cache.Password,
		DB:       c.Cache.DB,
		TTL:      c.Cache.TTL,
	}
}

// ToEmailConfig converts Config to services.EmailConfig
func (c *Config) ToEmailConfig() services.EmailConfig {
	return services.EmailConfig{
		SMTPHost:     c.Email.SMTPHost,
		SMTPPort:     c.Email.SMTPPort,
		SMTPUsername: c.Email.SMTPUsername,
		SMTPPassword: c.Email.SMTPPassword,
		FromEmail:    c.Email.FromEmail,
		FromName:     c.Email.FromName,
	}
}

// ToSeasonCalendar builds the league week calendar for the configured season
func (c *Config) ToSeasonCalendar() models.SeasonCalendar {
	return models.NewSeasonCalendar(
		c.League.Season,
		time.Month(c.League.AnchorMonth),
		c.League.AnchorDay,
		c.League.DeadlineHour,
	)
}
