package querylib

import "errors"

var (
	// ErrNoIPAddress is returned by Resolver if none of providers was
	// able to detect an IP address.
	ErrNoIPAddress = errors.New("cannot detect ip address")

	// ErrResolverShutdown is returned if resolver was shutdown.
	ErrResolverShutdown = errors.New("resolver instance was shutdown")

	// ErrUnexpectedStatus is wrapped by providers when remote service
	// responds with non-200 status code.
	ErrUnexpectedStatus = errors.New("unexpected status code")

	// ErrInvalidProxy is returned if proxy configuration cannot be
	// parsed.
	ErrInvalidProxy = errors.New("invalid proxy")
)
