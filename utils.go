package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/9seconds/ipquery/querylib"
)

func makeRootContext() (context.Context, context.CancelFunc) {
	rootCtx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)

	go func() {
		for range sigChan {
			cancel()
		}
	}()

	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	return rootCtx, cancel
}

func makeDownloadHTTPClient(conf *config) (querylib.HTTPClient, error) {
	transport, err := querylib.NewHTTPTransport(conf.GetProxies())
	if err != nil {
		return nil, err
	}

	return querylib.NewHTTPClient(&http.Client{Transport: transport},
		conf.GetUserAgent(),
		conf.GetRateLimitInterval(),
		conf.GetRateLimitBurst()), nil
}

func mergeProxies(base, override map[string]string) map[string]string {
	rv := make(map[string]string, len(base)+len(override))

	for k, v := range base {
		rv[k] = v
	}

	for k, v := range override {
		rv[k] = v
	}

	return rv
}
