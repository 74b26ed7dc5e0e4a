package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"strings"

	"github.com/9seconds/ipquery/querylib"
	"github.com/oschwald/geoip2-golang"
	"github.com/spf13/afero"
)

const (
	// DefaultDatabaseDirectory is a directory where geoipupdate puts
	// MaxMind databases on most Linux distributions.
	DefaultDatabaseDirectory = "/usr/share/GeoIP"

	// MaxmindCountryEdition is an edition of GeoLite2 country database.
	MaxmindCountryEdition = "GeoLite2-Country"

	// MaxmindASNEdition is an edition of GeoLite2 ASN database.
	MaxmindASNEdition = "GeoLite2-ASN"

	maxmindDatabaseExt = ".mmdb"
)

// MaxmindOpts defines where MaxmindGeoDB looks for databases.
type MaxmindOpts struct {
	// Fs is a filesystem to read databases from. OS filesystem is used
	// if nothing is set.
	Fs afero.Fs

	// Directory contains default databases: GeoLite2-Country.mmdb
	// and GeoLite2-ASN.mmdb. DefaultDatabaseDirectory is used if
	// nothing is set.
	Directory string

	// CountryDatabase is a path to country database which overrides a
	// default one. It is used only if it exists.
	CountryDatabase string

	// ASNDatabase is a path to ASN database which overrides a default
	// one. It is used only if it exists.
	ASNDatabase string
}

type maxmindGeoDB struct {
	fs              afero.Fs
	directory       string
	countryDatabase string
	asnDatabase     string
}

// Lookup does 2 independent lookups: in country and in ASN databases.
// Both of them have to succeed, partial result is an error.
//
// Each database is opened, queried exactly once and closed before
// return.
func (m maxmindGeoDB) Lookup(ctx context.Context, ip net.IP) (querylib.Record, error) {
	if len(ip) == 0 {
		return querylib.Record{}, errors.New("ip address is empty")
	}

	rv := querylib.Record{IP: ip}

	if err := m.lookupCountry(ip, &rv); err != nil {
		return querylib.Record{}, fmt.Errorf("cannot lookup a country: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return querylib.Record{}, err
	}

	if err := m.lookupASN(ip, &rv); err != nil {
		return querylib.Record{}, fmt.Errorf("cannot lookup an asn: %w", err)
	}

	return rv, nil
}

func (m maxmindGeoDB) lookupCountry(ip net.IP, rv *querylib.Record) error {
	reader, err := m.open(m.countryDatabase, MaxmindCountryEdition)
	if err != nil {
		return err
	}

	defer reader.Close()

	record, err := reader.Country(ip)
	if err != nil {
		return fmt.Errorf("cannot lookup this ip address: %w", err)
	}

	if record.Country.IsoCode == "" {
		return ErrAddressNotFound
	}

	rv.Country = record.Country.Names["en"]
	rv.CountryCode = strings.ToUpper(record.Country.IsoCode)

	return nil
}

func (m maxmindGeoDB) lookupASN(ip net.IP, rv *querylib.Record) error {
	reader, err := m.open(m.asnDatabase, MaxmindASNEdition)
	if err != nil {
		return err
	}

	defer reader.Close()

	record, err := reader.ASN(ip)
	if err != nil {
		return fmt.Errorf("cannot lookup this ip address: %w", err)
	}

	if record.AutonomousSystemNumber == 0 {
		return ErrAddressNotFound
	}

	rv.ASN = record.AutonomousSystemNumber
	rv.ASO = record.AutonomousSystemOrganization

	return nil
}

func (m maxmindGeoDB) open(override, edition string) (*geoip2.Reader, error) {
	path := m.databasePath(override, edition)

	data, err := afero.ReadFile(m.fs, path)
	if err != nil {
		return nil, fmt.Errorf("cannot read a database %s: %w", path, err)
	}

	reader, err := geoip2.FromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("cannot initialize a reader of %s: %w", path, err)
	}

	return reader, nil
}

func (m maxmindGeoDB) databasePath(override, edition string) string {
	if override != "" {
		if ok, err := afero.Exists(m.fs, override); err == nil && ok {
			return override
		}
	}

	return filepath.Join(m.directory, edition+maxmindDatabaseExt)
}

// NewMaxmindGeoDB returns a geo database backed by MaxMind GeoLite2
// country and ASN databases.
//
//	Website: https://dev.maxmind.com/geoip/geolite2-free-geolocation-data
//	Fields: country, country_code, asn, aso
//
// Databases could be fetched with MaxmindDownloader or geoipupdate.
func NewMaxmindGeoDB(opts MaxmindOpts) querylib.GeoDB {
	rv := maxmindGeoDB{
		fs:              opts.Fs,
		directory:       opts.Directory,
		countryDatabase: opts.CountryDatabase,
		asnDatabase:     opts.ASNDatabase,
	}

	if rv.fs == nil {
		rv.fs = afero.NewOsFs()
	}

	if rv.directory == "" {
		rv.directory = DefaultDatabaseDirectory
	}

	return rv
}
