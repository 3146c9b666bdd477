package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/nodehive/nodehive/internal/types"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig
	Billing    BillingConfig `validate:"required"`
	Trial      TrialConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
	// BaseURL is the externally visible url of the platform front-end,
	// used to build checkout success/cancel redirects.
	BaseURL string `mapstructure:"base_url"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host                   string
	Port                   int
	User                   string
	Password               string
	DBName                 string
	SSLMode                string
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMinutes int `mapstructure:"conn_max_lifetime_minutes"`
}

// BillingConfig holds the platform-level billing provider settings including
// the default product/price mappings used when a team's plan does not
// override them.
type BillingConfig struct {
	Stripe StripeConfig `validate:"required"`
}

type StripeConfig struct {
	SecretKey string `mapstructure:"secret_key"`
	// Default product/price for team member seats
	TeamProduct string `mapstructure:"team_product"`
	TeamPrice   string `mapstructure:"team_price"`
	// Default product/price for billable devices
	DeviceProduct string `mapstructure:"device_product"`
	DevicePrice   string `mapstructure:"device_price"`
	// NewCustomerFreeCredit enables the free-trial metadata flag on checkout
	// sessions for eligible users when > 0. Amount is in the smallest
	// currency unit.
	NewCustomerFreeCredit int64 `mapstructure:"new_customer_free_credit"`
}

// TrialConfig is the global trial-mode configuration. Services read it from
// the live Configuration on every call rather than caching it, so toggling
// trial mode takes effect immediately.
type TrialConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// DurationDays is the length of the trial window from team creation
	DurationDays int `mapstructure:"duration_days"`
	// ProjectType is the single project type permitted to run during a trial
	ProjectType string `mapstructure:"project_type"`
}

func NewConfig() (*Configuration, error) {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/nodehive")

	v.SetEnvPrefix("NODEHIVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts or other non-web applications
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080", BaseURL: "http://localhost:3000"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
