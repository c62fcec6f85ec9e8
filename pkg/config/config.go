package config

import (
	"time"

	"github.com/maximthomas/gradify/pkg/log"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Server  Server  `yaml:"server"`
	IdP     IdP     `yaml:"idp"`
	Logging Logging `yaml:"logging"`
}

type Server struct {
	Port int  `yaml:"port"`
	Cors Cors `yaml:"cors"`
}

type Cors struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// IdP describes the Keycloak realm the gateway forwards to.
type IdP struct {
	BaseURL      string        `yaml:"baseUrl"`
	Realm        string        `yaml:"realm"`
	ClientID     string        `yaml:"clientId"`
	ClientSecret string        `yaml:"clientSecret"`
	Discovery    bool          `yaml:"discovery"`
	Timeout      time.Duration `yaml:"timeout"`
	SkipTLS      bool          `yaml:"skipTls"`
}

type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const clientSecretEnv = "KEYCLOAK_CLIENT_SECRET"

// envKeys lists the environment variables read for each key, so a
// configuration without any file still unmarshals completely.
var envKeys = map[string][]string{
	"server.port":                {"SERVER_PORT"},
	"server.cors.allowedOrigins": {"SERVER_CORS_ALLOWEDORIGINS"},
	"idp.baseUrl":                {"IDP_BASEURL"},
	"idp.realm":                  {"IDP_REALM"},
	"idp.clientId":               {"IDP_CLIENTID"},
	"idp.clientSecret":           {clientSecretEnv, "IDP_CLIENTSECRET"},
	"idp.discovery":              {"IDP_DISCOVERY"},
	"idp.timeout":                {"IDP_TIMEOUT"},
	"idp.skipTls":                {"IDP_SKIPTLS"},
	"logging.level":              {"LOGGING_LEVEL"},
	"logging.format":             {"LOGGING_FORMAT"},
}

var config Config

func InitConfig() error {
	var configLogger = log.WithField("module", "config")

	viper.SetDefault("server.port", 8000)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("idp.discovery", false)
	viper.SetDefault("idp.timeout", "0s")
	for key, envs := range envKeys {
		if err := viper.BindEnv(append([]string{key}, envs...)...); err != nil {
			return errors.Wrapf(err, "bind env for %s", key)
		}
	}

	var newConfig Config
	err := viper.Unmarshal(&newConfig)
	if err != nil {
		configLogger.Errorf("error reading config: %s", err)
		return errors.Wrap(err, "unmarshal config")
	}
	if err = newConfig.Validate(); err != nil {
		configLogger.Errorf("invalid config: %s", err)
		return err
	}

	log.Configure(newConfig.Logging.Level, newConfig.Logging.Format)
	configLogger.Debugf("got configuration for realm %s at %s", newConfig.IdP.Realm, newConfig.IdP.BaseURL)

	config = newConfig
	return nil
}

// Validate checks the settings the gateway cannot run without.
// The client secret has no fallback value: it must come from the config file or the environment.
func (c Config) Validate() error {
	if c.IdP.BaseURL == "" {
		return errors.New("idp.baseUrl is required")
	}
	if c.IdP.Realm == "" {
		return errors.New("idp.realm is required")
	}
	if c.IdP.ClientID == "" {
		return errors.New("idp.clientId is required")
	}
	if c.IdP.ClientSecret == "" {
		return errors.Errorf("idp.clientSecret is required, set it in the config file or %s", clientSecretEnv)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.IdP.Timeout < 0 {
		return errors.New("idp.timeout must not be negative")
	}
	return nil
}

func GetConfig() Config {
	return config
}

func SetConfig(newConfig Config) {
	config = newConfig
}
