// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package configs contains the service's configuration.
package configs

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/komkom/toml"
)

// EnvPrefix is the prefix of every configuration environment variable.
const EnvPrefix = "OPENGRAPH_"

var version = "dev"

type config struct {
	Main   configMain   `json:"main" envPrefix:"MAIN_"`
	Server configServer `json:"server" envPrefix:"SERVER_"`
	Fetch  configFetch  `json:"fetch" envPrefix:"FETCH_"`
}

type configMain struct {
	LogLevel  slog.Level `json:"log_level" env:"LOG_LEVEL"`
	LogFormat string     `json:"log_format" env:"LOG_FORMAT"`
	DevMode   bool       `json:"dev_mode" env:"DEV_MODE"`
}

type configServer struct {
	Host           string   `json:"host" env:"HOST"`
	Port           int      `json:"port" env:"PORT"`
	TrustedOrigins []string `json:"trusted_origins" env:"TRUSTED_ORIGINS"`
}

type configFetch struct {
	Timeout        Duration      `json:"timeout" env:"TIMEOUT"`
	UserAgent      string        `json:"user_agent" env:"USER_AGENT"`
	AcceptLanguage string        `json:"accept_language" env:"ACCEPT_LANGUAGE"`
	MaxRedirects   int           `json:"max_redirects" env:"MAX_REDIRECTS"`
	DeniedIPs      []configIPNet `json:"denied_ips" env:"DENIED_IPS"`
	Charset        string        `json:"charset" env:"CHARSET"`
}

// Duration is a [time.Duration] that reads from a string ("10s", "1m30s").
type Duration time.Duration

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

type configIPNet struct {
	*net.IPNet
}

func newConfigIPNet(v string) configIPNet {
	_, r, err := net.ParseCIDR(v)
	if err != nil {
		panic(err)
	}
	return configIPNet{r}
}

func (ci *configIPNet) UnmarshalText(text []byte) error {
	_, r, err := net.ParseCIDR(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	ci.IPNet = r
	return nil
}

func (ci configIPNet) MarshalText() ([]byte, error) {
	return []byte(ci.String()), nil
}

// Config holds the configuration data from configuration files
// or flags.
//
// This variable has some default values that might be overridden
// by a configuration file.
var Config = defaultConfig()

func defaultConfig() config {
	return config{
		Main: configMain{
			LogLevel:  slog.LevelInfo,
			LogFormat: "text",
		},
		Server: configServer{
			Host: "127.0.0.1",
			Port: 8000,
		},
		Fetch: configFetch{
			Timeout:        Duration(10 * time.Second),
			AcceptLanguage: "en-US,en;q=0.8",
			MaxRedirects:   10,
			DeniedIPs: []configIPNet{
				newConfigIPNet("127.0.0.0/8"),
				newConfigIPNet("::1/128"),
			},
			Charset: "utf-8",
		},
	}
}

// Reset restores the default configuration.
func Reset() {
	Config = defaultConfig()
}

// LoadConfiguration loads the configuration file, when a name is given,
// then applies the environment variables.
func LoadConfiguration(name string) error {
	if name != "" {
		fd, err := os.Open(name)
		if err != nil {
			return err
		}
		defer fd.Close() //nolint:errcheck

		if err = loadConfig(fd); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	return loadEnv()
}

func loadConfig(r io.Reader) error {
	dec := json.NewDecoder(toml.New(r))
	return dec.Decode(&Config)
}

func loadEnv() error {
	return env.ParseWithOptions(&Config, env.Options{
		Prefix: EnvPrefix,
	})
}

// Validate checks the configuration values.
func Validate() error {
	switch Config.Main.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", Config.Main.LogFormat)
	}

	if Config.Server.Port < 1 || Config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", Config.Server.Port)
	}

	for _, o := range Config.Server.TrustedOrigins {
		u, err := url.Parse(o)
		if err != nil || u.Scheme == "" || u.Host == "" || u.User != nil ||
			u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
			return fmt.Errorf("invalid trusted origin %q", o)
		}
	}

	if Config.Fetch.Timeout <= 0 {
		return fmt.Errorf("invalid fetch timeout %s", time.Duration(Config.Fetch.Timeout))
	}

	if Config.Fetch.MaxRedirects < 0 {
		return fmt.Errorf("invalid max redirects %d", Config.Fetch.MaxRedirects)
	}

	return nil
}

// DeniedIPs returns the list of networks the HTTP client can't reach.
func DeniedIPs() []*net.IPNet {
	res := make([]*net.IPNet, len(Config.Fetch.DeniedIPs))
	for i, x := range Config.Fetch.DeniedIPs {
		res[i] = x.IPNet
	}
	return res
}

// Version returns the current version.
func Version() string {
	return version
}
