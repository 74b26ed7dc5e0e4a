package providers_test

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net"
	"net/http"
	"testing"

	"github.com/9seconds/ipquery/providers"
	"github.com/9seconds/ipquery/querylib"
	"github.com/jarcoal/httpmock"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/suite"
)

const maxmindDownloadURL = "https://download.maxmind.com/app/geoip_download"

type MaxmindDownloaderTestSuite struct {
	MockedProviderTestSuite

	fs         afero.Fs
	downloader *providers.MaxmindDownloader
}

func (suite *MaxmindDownloaderTestSuite) SetupTest() {
	suite.MockedProviderTestSuite.SetupTest()

	suite.fs = afero.NewMemMapFs()

	downloader, err := providers.NewMaxmindDownloader(suite.http,
		suite.fs,
		"/var/lib/geoip",
		"apikey")

	suite.NoError(err)

	suite.downloader = downloader
}

func (suite *MaxmindDownloaderTestSuite) MakeArchive(files map[string][]byte) []byte {
	buf := &bytes.Buffer{}
	gzipWriter := gzip.NewWriter(buf)
	tarWriter := tar.NewWriter(gzipWriter)

	suite.NoError(tarWriter.WriteHeader(&tar.Header{
		Name:     "GeoLite2-Country_20230101/",
		Typeflag: tar.TypeDir,
		Mode:     0o755,
	}))

	for name, content := range files {
		suite.NoError(tarWriter.WriteHeader(&tar.Header{
			Name:     "GeoLite2-Country_20230101/" + name,
			Typeflag: tar.TypeReg,
			Mode:     0o644,
			Size:     int64(len(content)),
		}))

		_, err := tarWriter.Write(content)

		suite.NoError(err)
	}

	suite.NoError(tarWriter.Close())
	suite.NoError(gzipWriter.Close())

	return buf.Bytes()
}

func (suite *MaxmindDownloaderTestSuite) Register(edition string, archive []byte, checksum string) {
	httpmock.RegisterResponder(http.MethodGet,
		maxmindDownloadURL+"?edition_id="+edition+"&license_key=apikey&suffix=tar.gz.sha256",
		httpmock.NewStringResponder(http.StatusOK,
			checksum+"  "+edition+"_20230101.tar.gz\n"))
	httpmock.RegisterResponder(http.MethodGet,
		maxmindDownloadURL+"?edition_id="+edition+"&license_key=apikey&suffix=tar.gz",
		httpmock.NewBytesResponder(http.StatusOK, archive))
}

func (suite *MaxmindDownloaderTestSuite) Checksum(data []byte) string {
	sum := sha256.Sum256(data)

	return hex.EncodeToString(sum[:])
}

func (suite *MaxmindDownloaderTestSuite) TestNoLicenseKey() {
	_, err := providers.NewMaxmindDownloader(suite.http, suite.fs, "", "")

	suite.True(errors.Is(err, providers.ErrLicenseKeyIsRequired))
}

func (suite *MaxmindDownloaderTestSuite) TestPath() {
	suite.Equal("/var/lib/geoip/GeoLite2-ASN.mmdb",
		suite.downloader.Path(providers.MaxmindASNEdition))
}

func (suite *MaxmindDownloaderTestSuite) TestDownloadOk() {
	database := makeCountryDatabase(map[string][2]string{
		"81.2.69.0/24": {"GB", "United Kingdom"},
	})
	archive := suite.MakeArchive(map[string][]byte{
		"LICENSE.txt":           []byte("license"),
		"GeoLite2-Country.mmdb": database,
	})

	suite.Register(providers.MaxmindCountryEdition, archive, suite.Checksum(archive))

	suite.NoError(suite.downloader.Download(context.Background(),
		providers.MaxmindCountryEdition))

	data, err := afero.ReadFile(suite.fs, suite.downloader.Path(providers.MaxmindCountryEdition))

	suite.NoError(err)
	suite.Equal(database, data)

	files, err := afero.ReadDir(suite.fs, "/var/lib/geoip")

	suite.NoError(err)
	suite.Len(files, 1)
}

func (suite *MaxmindDownloaderTestSuite) TestDownloadAllAndLookup() {
	countryArchive := suite.MakeArchive(map[string][]byte{
		"GeoLite2-Country.mmdb": makeCountryDatabase(map[string][2]string{
			"81.2.69.0/24": {"GB", "United Kingdom"},
		}),
	})
	asnArchive := suite.MakeArchive(map[string][]byte{
		"GeoLite2-ASN.mmdb": makeASNDatabase(map[string]uint32{
			"81.2.69.0/24": 20712,
		}, "Andrews & Arnold Ltd"),
	})

	suite.Register(providers.MaxmindCountryEdition, countryArchive, suite.Checksum(countryArchive))
	suite.Register(providers.MaxmindASNEdition, asnArchive, suite.Checksum(asnArchive))

	suite.NoError(suite.downloader.Download(context.Background()))

	db := providers.NewMaxmindGeoDB(providers.MaxmindOpts{
		Fs:        suite.fs,
		Directory: "/var/lib/geoip",
	})
	ip := net.ParseIP("81.2.69.142")
	result, err := db.Lookup(context.Background(), ip)

	suite.NoError(err)
	suite.Equal(querylib.Record{
		IP:          ip,
		Country:     "United Kingdom",
		CountryCode: "GB",
		ASN:         20712,
		ASO:         "Andrews & Arnold Ltd",
	}, result)
}

func (suite *MaxmindDownloaderTestSuite) TestChecksumMismatch() {
	archive := suite.MakeArchive(map[string][]byte{
		"GeoLite2-Country.mmdb": []byte("database"),
	})

	suite.Register(providers.MaxmindCountryEdition, archive, suite.Checksum([]byte("xxx")))

	err := suite.downloader.Download(context.Background(), providers.MaxmindCountryEdition)

	suite.True(errors.Is(err, providers.ErrChecksumMismatch))

	exists, _ := afero.Exists(suite.fs, suite.downloader.Path(providers.MaxmindCountryEdition))

	suite.False(exists)
}

func (suite *MaxmindDownloaderTestSuite) TestBadChecksumFormat() {
	archive := suite.MakeArchive(map[string][]byte{
		"GeoLite2-Country.mmdb": []byte("database"),
	})

	suite.Register(providers.MaxmindCountryEdition, archive, "deadbeef")

	suite.Error(suite.downloader.Download(context.Background(),
		providers.MaxmindCountryEdition))
}

func (suite *MaxmindDownloaderTestSuite) TestNoDatabaseInArchive() {
	archive := suite.MakeArchive(map[string][]byte{
		"README.txt": []byte("readme"),
	})

	suite.Register(providers.MaxmindCountryEdition, archive, suite.Checksum(archive))

	err := suite.downloader.Download(context.Background(), providers.MaxmindCountryEdition)

	suite.True(errors.Is(err, providers.ErrNoFile))
}

func (suite *MaxmindDownloaderTestSuite) TestBadStatus() {
	httpmock.RegisterResponder(http.MethodGet,
		maxmindDownloadURL+"?edition_id=GeoLite2-ASN&license_key=apikey&suffix=tar.gz.sha256",
		httpmock.NewStringResponder(http.StatusUnauthorized, "Invalid license key"))

	err := suite.downloader.Download(context.Background(), providers.MaxmindASNEdition)

	suite.True(errors.Is(err, querylib.ErrUnexpectedStatus))
}

func TestMaxmindDownloader(t *testing.T) {
	suite.Run(t, &MaxmindDownloaderTestSuite{})
}
