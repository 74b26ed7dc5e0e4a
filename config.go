package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/9seconds/ipquery/ipquery"
	"github.com/9seconds/ipquery/providers"
	"github.com/9seconds/ipquery/querylib"
	"github.com/hjson/hjson-go/v4"
	"github.com/spf13/afero"
)

const (
	DefaultTimeout        = querylib.DefaultTimeout
	DefaultCacheTTL       = time.Hour
	DefaultRateLimitBurst = 10
)

type duration struct {
	time.Duration
}

func (d *duration) UnmarshalJSON(b []byte) error {
	var v interface{}

	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("cannot unmarshal duration: %w", err)
	}

	vv, ok := v.(string)
	if !ok {
		return fmt.Errorf("incorrect duration: %v", v)
	}

	dur, err := time.ParseDuration(vv)
	if err != nil {
		return fmt.Errorf("cannot parse duration: %w", err)
	}

	if dur < 0 {
		return fmt.Errorf("duration is negative: %s", vv)
	}

	d.Duration = dur

	return nil
}

type config struct {
	Timeout           duration          `json:"timeout"`
	NoGeo             bool              `json:"no_geo"`
	Concurrent        bool              `json:"concurrent"`
	Providers         []string          `json:"providers"`
	Proxies           map[string]string `json:"proxies"`
	UserAgent         string            `json:"user_agent"`
	RateLimitInterval duration          `json:"rate_limit_interval"`
	RateLimitBurst    uint              `json:"rate_limit_burst"`
	DatabaseDirectory string            `json:"database_directory"`
	CountryDatabase   string            `json:"country_database"`
	ASNDatabase       string            `json:"asn_database"`
	CacheSize         uint              `json:"cache_size"`
	CacheTTL          duration          `json:"cache_ttl"`
	LicenseKey        string            `json:"license_key"`
	UpdateEvery       duration          `json:"update_every"`
}

func (c config) GetTimeout() time.Duration {
	if c.Timeout.Duration == 0 {
		return DefaultTimeout
	}

	return c.Timeout.Duration
}

func (c config) GetWithGeo() bool {
	return !c.NoGeo
}

func (c config) GetConcurrent() bool {
	return c.Concurrent
}

func (c config) GetProviders() []string {
	if len(c.Providers) == 0 {
		return providers.DefaultChain()
	}

	return c.Providers
}

func (c config) GetProxies() map[string]string {
	if c.Proxies == nil {
		return map[string]string{}
	}

	return c.Proxies
}

func (c config) GetUserAgent() string {
	if c.UserAgent == "" {
		return ipquery.DefaultUserAgent
	}

	return c.UserAgent
}

func (c config) GetRateLimitInterval() time.Duration {
	return c.RateLimitInterval.Duration
}

func (c config) GetRateLimitBurst() int {
	if c.RateLimitBurst == 0 {
		return DefaultRateLimitBurst
	}

	return int(c.RateLimitBurst)
}

func (c config) GetDatabaseDirectory() string {
	if c.DatabaseDirectory == "" {
		return providers.DefaultDatabaseDirectory
	}

	return c.DatabaseDirectory
}

func (c config) GetCountryDatabase() string {
	return c.CountryDatabase
}

func (c config) GetASNDatabase() string {
	return c.ASNDatabase
}

func (c config) GetCacheSize() uint {
	return c.CacheSize
}

func (c config) GetCacheTTL() time.Duration {
	if c.CacheTTL.Duration == 0 {
		return DefaultCacheTTL
	}

	return c.CacheTTL.Duration
}

func (c config) GetLicenseKey() string {
	return c.LicenseKey
}

// GetUpdateEvery returns 0 if databases have to be updated only once.
func (c config) GetUpdateEvery() time.Duration {
	return c.UpdateEvery.Duration
}

func (c config) Opts(fs afero.Fs, log querylib.Logger) ipquery.Opts {
	return ipquery.Opts{
		Proxies:           c.GetProxies(),
		Timeout:           c.GetTimeout(),
		WithGeo:           c.GetWithGeo(),
		Providers:         c.GetProviders(),
		Concurrent:        c.GetConcurrent(),
		DatabaseDirectory: c.GetDatabaseDirectory(),
		CountryDatabase:   c.GetCountryDatabase(),
		ASNDatabase:       c.GetASNDatabase(),
		CacheSize:         c.GetCacheSize(),
		CacheTTL:          c.GetCacheTTL(),
		UserAgent:         c.GetUserAgent(),
		RateLimitInterval: c.GetRateLimitInterval(),
		RateLimitBurst:    c.GetRateLimitBurst(),
		Logger:            log,
		Fs:                fs,
	}
}

func (c config) Validate() error {
	known := map[string]struct{}{}

	for _, v := range providers.Names() {
		known[v] = struct{}{}
	}

	seen := map[string]struct{}{}

	for _, v := range c.GetProviders() {
		if _, ok := known[v]; !ok {
			return fmt.Errorf("%w: %s", providers.ErrUnknownProvider, v)
		}

		if _, ok := seen[v]; ok {
			return fmt.Errorf("provider %s is duplicated", v)
		}

		seen[v] = struct{}{}
	}

	if _, err := querylib.NewHTTPTransport(c.GetProxies()); err != nil {
		return fmt.Errorf("incorrect proxies: %w", err)
	}

	return nil
}

// parseConfig reads hjson config. An empty path means a default
// config.
func parseConfig(fs afero.Fs, path string) (*config, error) {
	conf := config{}

	if path == "" {
		return &conf, nil
	}

	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %w", err)
	}

	rawMap := map[string]interface{}{}

	if err := hjson.Unmarshal(content, &rawMap); err != nil {
		return nil, fmt.Errorf("cannot parse hjson: %w", err)
	}

	rawBytes, _ := json.Marshal(rawMap)

	if err := json.Unmarshal(rawBytes, &conf); err != nil {
		return nil, fmt.Errorf("incorrect config: %w", err)
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return &conf, nil
}
