package main

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultPartyPort = 3000
	defaultRelayPort = 4000
	envPrefix        = "DHPSI"
)

// NewViper returns a viper instance reading DHPSI_* variables, with dotted
// keys mapped to underscores (cors.origins -> DHPSI_CORS_ORIGINS).
func NewViper() *viper.Viper {
	vip := viper.New()
	vip.SetEnvPrefix(envPrefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vip.AutomaticEnv()

	vip.SetDefault("timeout", defaultTimeout)
	vip.SetDefault("pollInterval", defaultPollInterval)
	vip.SetDefault("workers", 0)
	vip.SetDefault("progress", false)
	vip.SetDefault("sessionTTL", defaultSessionTTL)
	vip.SetDefault("cors.origins", []string{"*"})
	vip.SetDefault("log.level", "info")
	vip.SetDefault("profile", "")
	return vip
}

// ReadConfigFile merges a yaml file into vip. An empty path is a no-op.
func ReadConfigFile(vip *viper.Viper, fpath string) error {
	if fpath == "" {
		return nil
	}
	vip.SetConfigFile(fpath)
	if err := vip.ReadInConfig(); err != nil {
		return configError("reading config file %s: %v", fpath, err)
	}
	return nil
}

func poolOpts(vip *viper.Viper) PoolOpts {
	return PoolOpts{vip.GetInt("workers"), vip.GetBool("progress")}
}

func requireString(vip *viper.Viper, key string) (string, error) {
	s := strings.TrimSpace(vip.GetString(key))
	if s == "" {
		return "", configError("missing required setting %q (flag --%s or env %s_%s)",
			key, key, envPrefix, strings.ToUpper(strings.ReplaceAll(key, ".", "_")))
	}
	return s, nil
}

func port(vip *viper.Viper, def int) (int, error) {
	if !vip.IsSet("port") {
		return def, nil
	}
	p := vip.GetInt("port")
	if p <= 0 || p > 65535 {
		return 0, configError("port %q is not a valid TCP port", vip.GetString("port"))
	}
	return p, nil
}

func positive(vip *viper.Viper, key string) (time.Duration, error) {
	d := vip.GetDuration(key)
	if d <= 0 {
		return 0, configError("%s must be a positive duration, got %q", key, vip.GetString(key))
	}
	return d, nil
}

// #############################################################################

func NewPartyConfig(vip *viper.Viper) (PartyConfig, error) {
	var cfg PartyConfig
	var err error

	if cfg.Port, err = port(vip, defaultPartyPort); err != nil {
		return cfg, err
	}
	if cfg.Label, err = requireString(vip, "label"); err != nil {
		return cfg, err
	}
	if cfg.Peer, err = requireString(vip, "peer"); err != nil {
		return cfg, err
	}
	if cfg.Dataset, err = requireString(vip, "dataset"); err != nil {
		return cfg, err
	}
	if cfg.Timeout, err = positive(vip, "timeout"); err != nil {
		return cfg, err
	}
	if cfg.PollInterval, err = positive(vip, "pollInterval"); err != nil {
		return cfg, err
	}
	cfg.Relay = strings.TrimSpace(vip.GetString("relay"))
	cfg.CORSOrigins = vip.GetStringSlice("cors.origins")
	cfg.Profile = vip.GetString("profile")
	cfg.Pool = poolOpts(vip)
	return cfg, nil
}

func NewRelayConfig(vip *viper.Viper) (RelayConfig, error) {
	var cfg RelayConfig
	var err error

	if cfg.Port, err = port(vip, defaultRelayPort); err != nil {
		return cfg, err
	}
	if cfg.SessionTTL, err = positive(vip, "sessionTTL"); err != nil {
		return cfg, err
	}
	cfg.CORSOrigins = vip.GetStringSlice("cors.origins")
	cfg.Profile = vip.GetString("profile")
	cfg.Pool = poolOpts(vip)
	return cfg, nil
}
