// Package ipquery detects a public IP address of the host and, if
// asked, its country and autonomous system.
//
// It asks a chain of web services one by one until someone answers
// and fills missing geo data from local MaxMind GeoLite2 databases.
//
//	record, err := ipquery.Query(ctx, ipquery.DefaultOpts())
//	if errors.Is(err, querylib.ErrNoIPAddress) {
//	    // nobody knows who we are
//	}
//
// If you need to run many queries, please create a resolver once with
// NewResolver and reuse it.
package ipquery

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/9seconds/ipquery/providers"
	"github.com/9seconds/ipquery/querylib"
	"github.com/spf13/afero"
)

// Version is a version of ipquery. It is also a part of default user
// agent.
const Version = "1.0.0"

// DefaultUserAgent is sent to providers if nothing else is set.
const DefaultUserAgent = "ipquery/" + Version

// Opts defines how to query IP address.
type Opts struct {
	// Proxies is a mapping of target to proxy URL. Please see
	// querylib.NewHTTPTransport for details.
	Proxies map[string]string

	// Transport overrides a transport built from Proxies.
	Transport http.RoundTripper

	// Timeout is given to each provider.
	Timeout time.Duration

	// WithGeo enables augmentation of incomplete records with local
	// databases in Query.
	WithGeo bool

	// Providers is an ordered list of provider names. Default chain
	// is used if it is empty.
	Providers []string

	// Concurrent asks all providers at once. Priority order is kept.
	Concurrent bool

	// DatabaseDirectory contains GeoLite2-Country.mmdb and
	// GeoLite2-ASN.mmdb.
	DatabaseDirectory string

	// CountryDatabase overrides a country database. It is used only if
	// this file exists.
	CountryDatabase string

	// ASNDatabase overrides an ASN database. It is used only if this
	// file exists.
	ASNDatabase string

	// CacheSize enables a cache of geo lookups if it is positive.
	CacheSize uint

	// CacheTTL is a lifetime of cached record. It matters only if
	// CacheSize > 0, 0 means forever.
	CacheTTL time.Duration

	// UserAgent is sent to providers. DefaultUserAgent is used if empty.
	UserAgent string

	// RateLimitInterval is a minimal interval between HTTP requests.
	// 0 disables rate limiting.
	RateLimitInterval time.Duration

	// RateLimitBurst is a number of requests allowed to go at once.
	RateLimitBurst int

	// Logger gets soft errors of providers and geo database.
	Logger querylib.Logger

	// Fs is a filesystem where databases live. OS filesystem is used
	// by default.
	Fs afero.Fs
}

// DefaultOpts returns options which are used by ipquery CLI if
// nothing is configured.
func DefaultOpts() Opts {
	return Opts{
		Timeout:           querylib.DefaultTimeout,
		WithGeo:           true,
		Providers:         providers.DefaultChain(),
		DatabaseDirectory: providers.DefaultDatabaseDirectory,
		UserAgent:         DefaultUserAgent,
		Logger:            querylib.NoopLogger{},
		Fs:                afero.NewOsFs(),
	}
}

// NewResolver wires providers, HTTP client and geo database into a
// resolver. Please do not forget to shutdown it.
//
// Geo database is always wired: Opts.WithGeo is a default for Query
// only, a resolver decides on each call.
func NewResolver(opts Opts) (*querylib.Resolver, error) {
	transport := opts.Transport

	if transport == nil {
		httpTransport, err := querylib.NewHTTPTransport(opts.Proxies)
		if err != nil {
			return nil, fmt.Errorf("cannot build http transport: %w", err)
		}

		transport = httpTransport
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = querylib.DefaultTimeout
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	httpClient := querylib.NewHTTPClient(&http.Client{
		Transport: transport,
		Timeout:   timeout,
	}, userAgent, opts.RateLimitInterval, opts.RateLimitBurst)

	chain, err := providers.NewChain(httpClient, opts.Providers...)
	if err != nil {
		return nil, fmt.Errorf("cannot build a chain of providers: %w", err)
	}

	geoDB := querylib.NewCachingGeoDB(providers.NewMaxmindGeoDB(providers.MaxmindOpts{
		Fs:              opts.Fs,
		Directory:       opts.DatabaseDirectory,
		CountryDatabase: opts.CountryDatabase,
		ASNDatabase:     opts.ASNDatabase,
	}), opts.CacheSize, opts.CacheTTL)

	return querylib.NewResolver(querylib.ResolverOpts{
		Providers:  chain,
		GeoDB:      geoDB,
		Logger:     opts.Logger,
		Timeout:    timeout,
		Concurrent: opts.Concurrent,
	})
}

// Query does a single query with a throwaway resolver.
//
// The only error which is caused by the network is
// querylib.ErrNoIPAddress. Other errors mean incorrect options.
func Query(ctx context.Context, opts Opts) (querylib.Record, error) {
	resolver, err := NewResolver(opts)
	if err != nil {
		return querylib.Record{}, err
	}

	defer resolver.Shutdown()

	return resolver.Query(ctx, opts.WithGeo)
}
