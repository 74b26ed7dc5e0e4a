package querylib

import (
	"context"
	"net"
	"net/http"
)

// Provider is a source of IP address: usually a web service which
// tells you who you are. Provider is not required to fill all fields of
// the record but a record without IP is an error.
type Provider interface {
	Name() string
	Query(context.Context) (Record, error)
}

// GeoDB is a source of geographic data for a known IP address. It has
// to return a complete record for this IP or an error.
type GeoDB interface {
	Lookup(context.Context, net.IP) (Record, error)
}

// Logger is a sink for soft errors. Resolver never fails because of
// them but it is good to know what has happened.
type Logger interface {
	ProviderError(name string, err error)
	GeoDBError(ip net.IP, err error)
}

// HTTPClient is an interface of HTTP client which is used by providers
// and downloaders.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// NoopLogger is a Logger which drops everything.
type NoopLogger struct{}

func (NoopLogger) ProviderError(string, error) {}

func (NoopLogger) GeoDBError(net.IP, error) {}
