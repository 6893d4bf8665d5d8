// Package config provides the options of the query-sites command, layered
// from defaults, a JSON config file, environment variables and flags.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atinyakov/tsadmin/internal/client/restapi"
	"github.com/atinyakov/tsadmin/internal/models"
	"github.com/spf13/pflag"
)

// Options holds the configuration values for a run.
type Options struct {
	// Server is the server base URL, e.g. https://tableau.example.com.
	Server string `json:"server"`
	// APIVersion is the REST API version, e.g. 3.19.
	APIVersion string `json:"api_version"`
	// Username selects classic sign-in.
	Username string `json:"username"`
	// TokenName selects personal access token sign-in.
	TokenName string `json:"token_name"`
	// HTTPSCert is the CA bundle the server certificate must chain to.
	HTTPSCert string `json:"https_cert"`
	// Insecure disables certificate verification when no HTTPSCert is set.
	Insecure bool `json:"insecure"`
	// Site is the content URL of the site to sign in to; empty is the default site.
	Site string `json:"site"`
	// PageSize is the sites page size.
	PageSize int `json:"page_size"`
	// Format is "text" or "json".
	Format string `json:"format"`
	// Timeout bounds each request; zero means none.
	Timeout Duration `json:"timeout"`
	// DSN enables saving the listing to PostgreSQL.
	DSN string `json:"dsn"`
	// Retention prunes saved sites not seen for this long; zero keeps all.
	Retention Duration `json:"retention"`
	// LogLevel is the zap level name.
	LogLevel string `json:"log_level"`

	// Config is the path to the JSON config file.
	Config string `json:"-"`
	// Password and TokenSecret are read from the environment only.
	Password    string `json:"-"`
	TokenSecret string `json:"-"`
}

// Duration is a time.Duration that reads "30s"-style strings from JSON.
type Duration time.Duration

// UnmarshalJSON accepts a duration string or a number of nanoseconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var n int64
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("invalid duration %s", b)
		}
		*d = Duration(n)
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Default returns the options before any source is applied.
func Default() *Options {
	return &Options{
		PageSize: restapi.DefaultPageSize,
		Format:   "text",
		LogLevel: "warn",
	}
}

// BindFlags registers the command-line flags on fs, writing into o.
func (o *Options) BindFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Server, "server", "s", o.Server, "server url")
	fs.StringVarP(&o.APIVersion, "version", "v", o.APIVersion, "server api version")
	fs.StringVarP(&o.Username, "username", "u", o.Username, "username of server user")
	fs.StringVarP(&o.TokenName, "token", "t", o.TokenName, "personal access token name")
	fs.StringVarP(&o.HTTPSCert, "https-cert", "c", o.HTTPSCert, "path to HTTPS CA cert")
	fs.BoolVar(&o.Insecure, "insecure", o.Insecure, "skip server certificate verification")
	fs.StringVar(&o.Site, "site", o.Site, "content url of the site to sign in to (default site when empty)")
	fs.IntVar(&o.PageSize, "page-size", o.PageSize, "sites page size")
	fs.StringVar(&o.Format, "format", o.Format, "output format: text | json")
	fs.DurationVar((*time.Duration)(&o.Timeout), "timeout", time.Duration(o.Timeout), "per-request timeout (0 disables)")
	fs.StringVar(&o.DSN, "dsn", o.DSN, "postgres dsn to save the listing to")
	fs.DurationVar((*time.Duration)(&o.Retention), "retention", time.Duration(o.Retention), "prune saved sites not seen for this long (0 keeps all)")
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "log level: debug | info | warn | error")
	fs.StringVar(&o.Config, "config", o.Config, "path to JSON config file")
}

// environment overrides, applied after the config file.
var envVars = map[string]func(o *Options, v string){
	"TABLEAU_SERVER":       func(o *Options, v string) { o.Server = v },
	"TABLEAU_API_VERSION":  func(o *Options, v string) { o.APIVersion = v },
	"TABLEAU_USERNAME":     func(o *Options, v string) { o.Username = v },
	"TABLEAU_TOKEN_NAME":   func(o *Options, v string) { o.TokenName = v },
	"TABLEAU_HTTPS_CERT":   func(o *Options, v string) { o.HTTPSCert = v },
	"TABLEAU_SITE":         func(o *Options, v string) { o.Site = v },
	"TABLEAU_DSN":          func(o *Options, v string) { o.DSN = v },
	"TABLEAU_PASSWORD":     func(o *Options, v string) { o.Password = v },
	"TABLEAU_TOKEN_SECRET": func(o *Options, v string) { o.TokenSecret = v },
}

// Load applies the config file and the environment on top of o, then
// re-applies the flags that were set explicitly on fs so they win.
// fs must already be parsed.
func (o *Options) Load(fs *pflag.FlagSet) error {
	explicit := make(map[string]string)
	fs.Visit(func(f *pflag.Flag) {
		explicit[f.Name] = f.Value.String()
	})

	// CONFIG names the file when --config is not given.
	if configPath := os.Getenv("CONFIG"); configPath != "" && o.Config == "" {
		o.Config = configPath
	}

	if o.Config != "" {
		data, err := os.ReadFile(o.Config)
		if err != nil {
			return fmt.Errorf("error while reading config file: %w", err)
		}
		if err := json.Unmarshal(data, o); err != nil {
			return fmt.Errorf("error while parsing config file: %w", err)
		}
	}

	for name, apply := range envVars {
		if v := os.Getenv(name); v != "" {
			apply(o, v)
		}
	}

	for name, v := range explicit {
		if err := fs.Set(name, v); err != nil {
			return fmt.Errorf("flag --%s: %w", name, err)
		}
	}
	return nil
}

// Validate checks the options that must hold before any network activity.
func (o *Options) Validate() error {
	if o.Server == "" {
		return fmt.Errorf("%w: server url is required", models.ErrConfiguration)
	}
	if o.APIVersion == "" {
		return fmt.Errorf("%w: api version is required", models.ErrConfiguration)
	}
	if o.Username == "" && o.TokenName == "" {
		return fmt.Errorf("%w: either username or token must be defined", models.ErrConfiguration)
	}
	if o.PageSize < 0 {
		return fmt.Errorf("%w: page size must not be negative", models.ErrConfiguration)
	}
	switch strings.ToLower(o.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown format %q", models.ErrConfiguration, o.Format)
	}
	return nil
}

// APIURL returns {server}/api/{version}.
func (o *Options) APIURL() string {
	return restapi.APIURL(o.Server, o.APIVersion)
}

// TLSPolicy returns the certificate verification policy.
func (o *Options) TLSPolicy() models.TLSPolicy {
	return models.TLSPolicy{CAPath: o.HTTPSCert, Insecure: o.Insecure}
}
