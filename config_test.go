package main

import (
	"errors"
	"testing"
	"time"

	"github.com/9seconds/ipquery/ipquery"
	"github.com/9seconds/ipquery/providers"
	"github.com/9seconds/ipquery/querylib"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite

	fs afero.Fs
}

func (suite *ConfigTestSuite) SetupTest() {
	suite.fs = afero.NewMemMapFs()
}

func (suite *ConfigTestSuite) Parse(content string) (*config, error) {
	suite.NoError(afero.WriteFile(suite.fs, "/etc/ipquery.hjson", []byte(content), 0o644))

	return parseConfig(suite.fs, "/etc/ipquery.hjson")
}

func (suite *ConfigTestSuite) TestEmptyPath() {
	conf, err := parseConfig(suite.fs, "")

	suite.NoError(err)
	suite.Equal(DefaultTimeout, conf.GetTimeout())
	suite.True(conf.GetWithGeo())
	suite.Equal(providers.DefaultChain(), conf.GetProviders())
	suite.Equal(providers.DefaultDatabaseDirectory, conf.GetDatabaseDirectory())
	suite.Equal(ipquery.DefaultUserAgent, conf.GetUserAgent())
	suite.Equal(DefaultRateLimitBurst, conf.GetRateLimitBurst())
	suite.Equal(DefaultCacheTTL, conf.GetCacheTTL())
	suite.Zero(conf.GetUpdateEvery())
	suite.Empty(conf.GetProxies())
}

func (suite *ConfigTestSuite) TestMissingFile() {
	_, err := parseConfig(suite.fs, "/nowhere.hjson")

	suite.Error(err)
}

func (suite *ConfigTestSuite) TestFull() {
	conf, err := suite.Parse(`{
  # comments are fine
  timeout: 2s
  no_geo: true
  concurrent: true
  providers: [
    ipify
    ipsb
  ]
  proxies: {
    all: "socks5://127.0.0.1:1080"
    "https://api.ip.sb": "http://proxy:3128"
  }
  user_agent: "curl/8.0"
  rate_limit_interval: 100ms
  rate_limit_burst: 3
  database_directory: "/var/lib/GeoIP"
  country_database: "/opt/country.mmdb"
  asn_database: "/opt/asn.mmdb"
  cache_size: 100
  cache_ttl: 10m
  license_key: secret
  update_every: 24h
}`)

	suite.NoError(err)

	opts := conf.Opts(suite.fs, querylib.NoopLogger{})

	suite.Equal(2*time.Second, opts.Timeout)
	suite.False(opts.WithGeo)
	suite.True(opts.Concurrent)
	suite.Equal([]string{providers.NameIPify, providers.NameIPSB}, opts.Providers)
	suite.Equal(map[string]string{
		"all":               "socks5://127.0.0.1:1080",
		"https://api.ip.sb": "http://proxy:3128",
	}, opts.Proxies)
	suite.Equal("curl/8.0", opts.UserAgent)
	suite.Equal(100*time.Millisecond, opts.RateLimitInterval)
	suite.Equal(3, opts.RateLimitBurst)
	suite.Equal("/var/lib/GeoIP", opts.DatabaseDirectory)
	suite.Equal("/opt/country.mmdb", opts.CountryDatabase)
	suite.Equal("/opt/asn.mmdb", opts.ASNDatabase)
	suite.EqualValues(100, opts.CacheSize)
	suite.Equal(10*time.Minute, opts.CacheTTL)
	suite.Equal("secret", conf.GetLicenseKey())
	suite.Equal(24*time.Hour, conf.GetUpdateEvery())
}

func (suite *ConfigTestSuite) TestBrokenHJSON() {
	_, err := suite.Parse(`{"timeout": `)

	suite.Error(err)
}

func (suite *ConfigTestSuite) TestBadDuration() {
	_, err := suite.Parse(`{"timeout": "5 parsecs"}`)

	suite.Error(err)
}

func (suite *ConfigTestSuite) TestNegativeDuration() {
	_, err := suite.Parse(`{"timeout": "-1s"}`)

	suite.Error(err)
}

func (suite *ConfigTestSuite) TestNumericDuration() {
	_, err := suite.Parse(`{"timeout": 5}`)

	suite.Error(err)
}

func (suite *ConfigTestSuite) TestUnknownProvider() {
	_, err := suite.Parse(`{"providers": ["ipify", "whoami"]}`)

	suite.True(errors.Is(err, providers.ErrUnknownProvider))
}

func (suite *ConfigTestSuite) TestDuplicatedProvider() {
	_, err := suite.Parse(`{"providers": ["ipify", "ipify"]}`)

	suite.Error(err)
}

func (suite *ConfigTestSuite) TestBadProxy() {
	_, err := suite.Parse(`{"proxies": {"all": "ftp://proxy:21"}}`)

	suite.True(errors.Is(err, querylib.ErrInvalidProxy))
}

func TestConfig(t *testing.T) {
	suite.Run(t, &ConfigTestSuite{})
}
