package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	DB         DBConfig         `mapstructure:"db"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Storage    StorageConfig    `mapstructure:"storage"`
	AppHost    string           `mapstructure:"host"`
	Federation FederationConfig `mapstructure:"federation"`
}

type DBConfig struct {
	Source string `mapstructure:"source"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// FederationConfig gates server-to-server sharing. The enable switches
// are "yes"/"no" strings, kept string-typed so the stored values stay
// round-trippable with admin tooling that edits the raw config.
type FederationConfig struct {
	OutgoingShareEnabled string   `mapstructure:"outgoing_server2server_share_enabled"`
	IncomingShareEnabled string   `mapstructure:"incoming_server2server_share_enabled"`
	AutoAcceptTrusted    string   `mapstructure:"auto_accept_trusted"`
	AutoAddServers       string   `mapstructure:"auto_add_servers"`
	TrustedServers       []string `mapstructure:"trusted_servers"`
}

func Load() (*Config, error) {
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("/configs")
	viper.SetConfigName("settings")
	viper.SetConfigType("yml")

	viper.SetDefault("federation.outgoing_server2server_share_enabled", "yes")
	viper.SetDefault("federation.incoming_server2server_share_enabled", "yes")
	viper.SetDefault("federation.auto_accept_trusted", "no")
	viper.SetDefault("federation.auto_add_servers", "no")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
