package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// ServerOptions configures the stub REST server.
type ServerOptions struct {
	Addr       string
	Fixtures   string
	Sites      int
	Users      []string
	Tokens     []string
	CertsDir   string
	PlainHTTP  bool
	SessionTTL time.Duration
	LogLevel   string
}

// DefaultServer returns the stub server defaults.
func DefaultServer() *ServerOptions {
	return &ServerOptions{
		Addr:       ":8443",
		Sites:      25,
		CertsDir:   "certs",
		SessionTTL: 240 * time.Minute,
		LogLevel:   "info",
	}
}

// BindFlags registers the stub server flags on fs.
func (o *ServerOptions) BindFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Addr, "addr", "a", o.Addr, "listen address")
	fs.StringVar(&o.Fixtures, "fixtures", o.Fixtures, "JSON file with users, tokens and sites")
	fs.IntVar(&o.Sites, "sites", o.Sites, "number of generated sites when no fixtures are given")
	fs.StringSliceVar(&o.Users, "user", o.Users, "name:password account (repeatable)")
	fs.StringSliceVar(&o.Tokens, "pat", o.Tokens, "name:secret personal access token (repeatable)")
	fs.StringVar(&o.CertsDir, "certs", o.CertsDir, "directory holding ca.crt and ca.key, created when missing")
	fs.BoolVar(&o.PlainHTTP, "plain-http", o.PlainHTTP, "serve plain HTTP instead of TLS")
	fs.DurationVar(&o.SessionTTL, "session-ttl", o.SessionTTL, "idle time after which sessions expire")
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "log level: debug | info | warn | error")
}

// ApplyEnv fills the listen address and fixtures path from STUB_ADDR and
// STUB_FIXTURES unless the matching flag was set on fs.
func (o *ServerOptions) ApplyEnv(fs *pflag.FlagSet) {
	if v := os.Getenv("STUB_ADDR"); v != "" && !fs.Changed("addr") {
		o.Addr = v
	}
	if v := os.Getenv("STUB_FIXTURES"); v != "" && !fs.Changed("fixtures") {
		o.Fixtures = v
	}
}

// ParsePairs splits "name:secret" entries into a map.
func ParsePairs(entries []string) (map[string]string, error) {
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		name, secret, ok := strings.Cut(e, ":")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid account %q: want name:secret", e)
		}
		out[name] = secret
	}
	return out, nil
}
