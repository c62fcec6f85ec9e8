package cmd

import (
	"testing"

	"github.com/maximthomas/gradify/pkg/config"
	"github.com/spf13/viper"

	"github.com/stretchr/testify/assert"
)

func TestInitConfig(t *testing.T) {
	viper.Reset()
	t.Setenv("KEYCLOAK_CLIENT_SECRET", "")
	t.Setenv("IDP_CLIENTSECRET", "")
	cfgFile = "../test/gradify-config-dev.yaml"
	defer func() { cfgFile = "" }()

	err := initConfig()
	assert.NoError(t, err)
	conf := config.GetConfig()
	assert.Equal(t, "gradify", conf.IdP.Realm)
	assert.Equal(t, "gradibackend", conf.IdP.ClientID)
	assert.Equal(t, "dev-secret", conf.IdP.ClientSecret)
}

func TestVersionNeedsNoConfig(t *testing.T) {
	viper.Reset()
	t.Setenv("KEYCLOAK_CLIENT_SECRET", "")
	t.Setenv("IDP_CLIENTSECRET", "")
	rootCmd.SetArgs([]string{"version", "--config", "../test/does-not-exist.yaml"})
	err := rootCmd.Execute()
	assert.NoError(t, err)
}

func TestExecuteMissingConfigFile(t *testing.T) {
	viper.Reset()
	rootCmd.SetArgs([]string{"--config", "../test/does-not-exist.yaml"})
	err := rootCmd.Execute()
	assert.Error(t, err)
}
