package config

import (
	"strings"
	"time"

	"github.com/UmidYul/21-IDUM/params"
	"github.com/spf13/viper"
)

const (
	DefaultListenAddr = ":3000"
	DefaultStaticDir  = "./public"
	DefaultDataFile   = "./db.json"
)

type SessionConfig struct {
	MaxAge       time.Duration `mapstructure:"maxAge"`
	CookieName   string        `mapstructure:"cookieName"`
	CookieSecure bool          `mapstructure:"cookieSecure"`
}

type TelegramConfig struct {
	BotToken string `mapstructure:"botToken"`
	ChatID   string `mapstructure:"chatID"`
}

type BootstrapConfig struct {
	AdminUsername string `mapstructure:"adminUsername"`
	AdminPassword string `mapstructure:"adminPassword"`
}

type Config struct {
	Debug        bool            `mapstructure:"debug"`
	Production   bool            `mapstructure:"production"`
	SiteName     string          `mapstructure:"siteName"`
	BaseURL      string          `mapstructure:"baseURL"`
	ListenAddr   string          `mapstructure:"listenAddr"`
	DataFile     string          `mapstructure:"dataFile"`
	StaticDir    string          `mapstructure:"staticDir"`
	TemplateDir  string          `mapstructure:"templateDir"`
	AllowOrigins []string        `mapstructure:"allowOrigins"`
	Session      SessionConfig   `mapstructure:"session"`
	Telegram     TelegramConfig  `mapstructure:"telegram"`
	Bootstrap    BootstrapConfig `mapstructure:"bootstrap"`
}

func (c *Config) Sanitize() error {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.StaticDir == "" {
		c.StaticDir = DefaultStaticDir
	}
	if c.DataFile == "" {
		c.DataFile = DefaultDataFile
	}
	if c.Session.MaxAge == 0 {
		c.Session.MaxAge = params.SessionMaxAge
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = params.AuthCookieName
	}
	if c.Bootstrap.AdminUsername == "" {
		c.Bootstrap.AdminUsername = "admin"
	}
	return nil
}

func LoadConfig(filename string) (*Config, error) {
	viper.SetConfigFile(filename)
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Sanitize(); err != nil {
		return nil, err
	}
	return &config, nil
}
