package providers

import (
	"fmt"
	"sort"

	"github.com/9seconds/ipquery/querylib"
)

var constructors = map[string]func(querylib.HTTPClient) querylib.Provider{
	NameIPSB:   NewIPSB,
	NameMyIP:   NewMyIP,
	NameIPify:  NewIPify,
	NameIPInfo: NewIPInfo,
	NameIPAPI:  NewIPAPI,
}

// DefaultChain returns names of providers which are used if nothing
// else is requested. An order is a priority: richest data first.
func DefaultChain() []string {
	return []string{NameIPSB, NameMyIP, NameIPify}
}

// Names returns sorted names of all known providers.
func Names() []string {
	rv := make([]string, 0, len(constructors))

	for k := range constructors {
		rv = append(rv, k)
	}

	sort.Strings(rv)

	return rv
}

// New creates a provider by its name.
func New(name string, client querylib.HTTPClient) (querylib.Provider, error) {
	constructor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}

	return constructor(client), nil
}

// NewChain creates an ordered chain of providers. If no names are
// given, DefaultChain is used. Duplicates are not allowed.
func NewChain(client querylib.HTTPClient, names ...string) ([]querylib.Provider, error) {
	if len(names) == 0 {
		names = DefaultChain()
	}

	rv := make([]querylib.Provider, 0, len(names))
	seen := map[string]struct{}{}

	for _, v := range names {
		if _, ok := seen[v]; ok {
			return nil, fmt.Errorf("provider %s is duplicated", v)
		}

		seen[v] = struct{}{}

		prov, err := New(v, client)
		if err != nil {
			return nil, err
		}

		rv = append(rv, prov)
	}

	return rv, nil
}
