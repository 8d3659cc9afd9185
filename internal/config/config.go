package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Demo     Demo     `mapstructure:"demo"`
	Insight  Insight  `mapstructure:"insight"`
	Telegram Telegram `mapstructure:"telegram"`
	Logger   Logger   `mapstructure:"logger"`
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
}

// Demo holds the tunables for the simulated trading core.
type Demo struct {
	InitialBalance float64 `mapstructure:"initial_balance"`
	Symbol         string  `mapstructure:"symbol"`
	BasePrice      float64 `mapstructure:"base_price"`

	// Session time limit, in minutes. The ceiling is set once, at first
	// start, and is never extended or reset for the account.
	TimeLimitMinutes int `mapstructure:"time_limit_minutes"`

	WinProbability  float64 `mapstructure:"win_probability"`
	ProfitMin       float64 `mapstructure:"profit_min"`
	ProfitMax       float64 `mapstructure:"profit_max"`
	RiskMin         float64 `mapstructure:"risk_min"`
	RiskMax         float64 `mapstructure:"risk_max"`
	PriceJitter     float64 `mapstructure:"price_jitter"`
	SettleDelayMinS int     `mapstructure:"settle_delay_min_s"`
	SettleDelayMaxS int     `mapstructure:"settle_delay_max_s"`
	BotDelayMinS    int     `mapstructure:"bot_delay_min_s"`
	BotDelayMaxS    int     `mapstructure:"bot_delay_max_s"`

	// Offline catch-up bounds.
	AvgTradeIntervalS int `mapstructure:"avg_trade_interval_s"`
	CatchupMinS       int `mapstructure:"catchup_min_s"`
	CatchupCapMinutes int `mapstructure:"catchup_cap_minutes"`

	// Fabricated withdrawal pings.
	PingFirstMinS  int     `mapstructure:"ping_first_min_s"`
	PingFirstMaxS  int     `mapstructure:"ping_first_max_s"`
	PingRepeatMinS int     `mapstructure:"ping_repeat_min_s"`
	PingRepeatMaxS int     `mapstructure:"ping_repeat_max_s"`
	WithdrawalMin  float64 `mapstructure:"withdrawal_min"`
	WithdrawalMax  float64 `mapstructure:"withdrawal_max"`
	PingsEnabled   bool    `mapstructure:"pings_enabled"`
}

// Insight holds the configuration for the chat/market-insight collaborator.
type Insight struct {
	ApiKey         string  `mapstructure:"api_key"`
	BaseURL        string  `mapstructure:"base_url"`
	Model          string  `mapstructure:"model"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Telegram holds the configuration for the operator notification relay.
type Telegram struct {
	Token   string  `mapstructure:"token"`
	ChatIDs []int64 `mapstructure:"chat_ids"`
	Enabled bool    `mapstructure:"enabled"`
}

// Server holds the configuration for the web server.
type Server struct {
	Port int `mapstructure:"port"`
}

// Database holds the configuration for the database.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or yaml, json

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	SetDefaults()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}

// SetDefaults registers the default value of every tunable with viper.
func SetDefaults() {
	viper.SetDefault("demo.initial_balance", 150.0)
	viper.SetDefault("demo.symbol", "BTC/EUR")
	viper.SetDefault("demo.base_price", 50000.0)
	viper.SetDefault("demo.time_limit_minutes", 360) // 6 hours
	viper.SetDefault("demo.win_probability", 0.8)
	viper.SetDefault("demo.profit_min", 0.5)
	viper.SetDefault("demo.profit_max", 2.5)
	viper.SetDefault("demo.risk_min", 16.0)
	viper.SetDefault("demo.risk_max", 25.0)
	viper.SetDefault("demo.price_jitter", 0.025)
	viper.SetDefault("demo.settle_delay_min_s", 3)
	viper.SetDefault("demo.settle_delay_max_s", 7)
	viper.SetDefault("demo.bot_delay_min_s", 20)
	viper.SetDefault("demo.bot_delay_max_s", 60)
	viper.SetDefault("demo.avg_trade_interval_s", 40)
	viper.SetDefault("demo.catchup_min_s", 15)
	viper.SetDefault("demo.catchup_cap_minutes", 60)
	viper.SetDefault("demo.ping_first_min_s", 15)
	viper.SetDefault("demo.ping_first_max_s", 25)
	viper.SetDefault("demo.ping_repeat_min_s", 25)
	viper.SetDefault("demo.ping_repeat_max_s", 60)
	viper.SetDefault("demo.withdrawal_min", 53.0)
	viper.SetDefault("demo.withdrawal_max", 399.0)
	viper.SetDefault("demo.pings_enabled", true)
	viper.SetDefault("insight.base_url", "https://api.mistral.ai/v1")
	viper.SetDefault("insight.model", "mistral-small-latest")
	viper.SetDefault("insight.rate_limit", 1)  // requests per second
	viper.SetDefault("insight.rate_limit_burst", 2)
	viper.SetDefault("telegram.enabled", false)
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("database.dsn", "demo.db")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
}

// TestConfig returns a Config populated with the documented defaults,
// bypassing viper. Intended for unit tests.
func TestConfig() *Config {
	return &Config{
		Demo: Demo{
			InitialBalance:    150.0,
			Symbol:            "BTC/EUR",
			BasePrice:         50000.0,
			TimeLimitMinutes:  360,
			WinProbability:    0.8,
			ProfitMin:         0.5,
			ProfitMax:         2.5,
			RiskMin:           16.0,
			RiskMax:           25.0,
			PriceJitter:       0.025,
			SettleDelayMinS:   3,
			SettleDelayMaxS:   7,
			BotDelayMinS:      20,
			BotDelayMaxS:      60,
			AvgTradeIntervalS: 40,
			CatchupMinS:       15,
			CatchupCapMinutes: 60,
			PingFirstMinS:     15,
			PingFirstMaxS:     25,
			PingRepeatMinS:    25,
			PingRepeatMaxS:    60,
			WithdrawalMin:     53.0,
			WithdrawalMax:     399.0,
			PingsEnabled:      true,
		},
		Logger: Logger{Level: "info", Format: "console"},
	}
}
