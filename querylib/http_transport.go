package querylib

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ProxyAll is a key of proxy mapping which matches any URL.
const ProxyAll = "all"

type proxySelector map[string]*url.URL

func (p proxySelector) Select(req *http.Request) (*url.URL, error) {
	scheme := strings.ToLower(req.URL.Scheme)
	keys := []string{
		scheme + "://" + strings.ToLower(req.URL.Hostname()),
		scheme,
		ProxyAll,
	}

	for _, v := range keys {
		if proxyURL, ok := p[v]; ok {
			return proxyURL, nil
		}
	}

	return http.ProxyFromEnvironment(req)
}

// NewHTTPTransport returns a clone of default transport which routes
// requests through proxies.
//
// proxies is a mapping of a target to the proxy URL. A target is
// matched in a following order: scheme://host (https://api.ipify.org),
// scheme (https) and ProxyAll. If nothing matches, then environment
// variables (HTTP_PROXY and friends) are used.
//
// Proxy URLs could be http, https or socks5 ones.
func NewHTTPTransport(proxies map[string]string) (*http.Transport, error) {
	selector := proxySelector{}

	for target, value := range proxies {
		proxyURL, err := url.Parse(value)
		if err != nil {
			return nil, fmt.Errorf("%w for %s: %v", ErrInvalidProxy, target, err)
		}

		switch {
		case proxyURL.Host == "":
			return nil, fmt.Errorf("%w for %s: host is empty", ErrInvalidProxy, target)
		case proxyURL.Scheme != "http" && proxyURL.Scheme != "https" && proxyURL.Scheme != "socks5":
			return nil, fmt.Errorf("%w for %s: unsupported scheme %s",
				ErrInvalidProxy, target, proxyURL.Scheme)
		}

		selector[strings.ToLower(target)] = proxyURL
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = selector.Select

	return transport, nil
}
