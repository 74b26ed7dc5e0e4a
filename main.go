package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/9seconds/ipquery/ipquery"
	"github.com/9seconds/ipquery/providers"
	"github.com/spf13/afero"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
)

var (
	app = kingpin.New(
		"ipquery",
		"Detect a public IP address of this host and where it belongs to.")

	debug = app.Flag("debug", "Run in debug mode.").
		Short('d').
		Envar("IPQUERY_DEBUG").
		Bool()
	configFile = app.Flag("config", "Path to the hjson config.").
			Short('c').
			Envar("IPQUERY_CONFIG").
			String()

	queryCommand = app.Command("query", "Detect a public IP address.").
			Default()
	queryTimeout = queryCommand.Flag("timeout", "Time given to each provider.").
			Duration()
	queryNoGeo = queryCommand.Flag("no-geo", "Do not use local geo databases.").
			Bool()
	queryConcurrent = queryCommand.Flag("concurrent", "Ask all providers at once.").
			Bool()
	queryProxies = queryCommand.Flag("proxy", "Proxy for a target like https=socks5://127.0.0.1:1080.").
			StringMap()
	queryProviders = queryCommand.Flag("provider", "Provider to use. Order defines a priority.").
			Enums(providers.Names()...)
	queryDatabaseDirectory = queryCommand.Flag("db-dir", "Directory with GeoLite2 databases.").
				String()
	queryCountryDatabase = queryCommand.Flag("country-db", "Path to GeoLite2 country database.").
				String()
	queryASNDatabase = queryCommand.Flag("asn-db", "Path to GeoLite2 ASN database.").
				String()

	updateCommand = app.Command("update-db", "Download MaxMind GeoLite2 databases.")
	updateLicenseKey = updateCommand.Flag("license-key", "MaxMind license key.").
				Envar("MAXMIND_LICENSE_KEY").
				String()
	updateEvery = updateCommand.Flag("every", "Keep running and update databases periodically.").
			Duration()
	updateEditions = updateCommand.Flag("edition", "Edition to download.").
			Enums(providers.MaxmindCountryEdition, providers.MaxmindASNEdition)
	updateDatabaseDirectory = updateCommand.Flag("db-dir", "Directory to put databases into.").
				String()
)

func init() {
	app.Version(ipquery.Version)
	app.HelpFlag.Short('h')
}

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))
	fs := afero.NewOsFs()
	log := newLogger(os.Stderr, *debug)

	conf, err := parseConfig(fs, *configFile)
	if err != nil {
		app.Fatalf("cannot parse config: %v", err)
	}

	ctx, cancel := makeRootContext()

	switch command {
	case queryCommand.FullCommand():
		err = runQuery(ctx, fs, conf, log)
	case updateCommand.FullCommand():
		err = runUpdate(ctx, fs, conf, log)
	}

	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func runQuery(ctx context.Context, fs afero.Fs, conf *config, log *logger) error {
	opts := conf.Opts(fs, log)

	if *queryTimeout > 0 {
		opts.Timeout = *queryTimeout
	}

	if *queryNoGeo {
		opts.WithGeo = false
	}

	if *queryConcurrent {
		opts.Concurrent = true
	}

	if len(*queryProxies) > 0 {
		opts.Proxies = mergeProxies(opts.Proxies, *queryProxies)
	}

	if len(*queryProviders) > 0 {
		opts.Providers = *queryProviders
	}

	if *queryDatabaseDirectory != "" {
		opts.DatabaseDirectory = *queryDatabaseDirectory
	}

	if *queryCountryDatabase != "" {
		opts.CountryDatabase = *queryCountryDatabase
	}

	if *queryASNDatabase != "" {
		opts.ASNDatabase = *queryASNDatabase
	}

	startedAt := time.Now()

	record, err := ipquery.Query(ctx, opts)
	if err != nil {
		return err
	}

	log.QueryDone(record, time.Since(startedAt))

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(record)
}

func runUpdate(ctx context.Context, fs afero.Fs, conf *config, log *logger) error {
	licenseKey := *updateLicenseKey
	if licenseKey == "" {
		licenseKey = conf.GetLicenseKey()
	}

	directory := *updateDatabaseDirectory
	if directory == "" {
		directory = conf.GetDatabaseDirectory()
	}

	httpClient, err := makeDownloadHTTPClient(conf)
	if err != nil {
		return fmt.Errorf("cannot build http client: %w", err)
	}

	downloader, err := providers.NewMaxmindDownloader(httpClient, fs, directory, licenseKey)
	if err != nil {
		return fmt.Errorf("cannot create a downloader: %w", err)
	}

	upd := &updater{
		downloader: downloader,
		logger:     log,
		editions:   *updateEditions,
		every:      conf.GetUpdateEvery(),
	}

	if len(upd.editions) == 0 {
		upd.editions = []string{providers.MaxmindCountryEdition, providers.MaxmindASNEdition}
	}

	if *updateEvery > 0 {
		upd.every = *updateEvery
	}

	return upd.Run(ctx)
}
