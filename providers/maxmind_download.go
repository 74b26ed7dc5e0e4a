package providers

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/9seconds/ipquery/querylib"
	"github.com/spf13/afero"
)

var maxmindChecksumRegexp = regexp.MustCompile(`(?i)^[a-f0-9]{64}$`)

// MaxmindDownloader fetches GeoLite2 databases from MaxMind and puts
// them into a directory where MaxmindGeoDB expects them.
type MaxmindDownloader struct {
	fs         afero.Fs
	directory  string
	licenseKey string
	httpClient querylib.HTTPClient
}

// Download fetches given editions. If nothing is given, both country
// and ASN databases are downloaded.
//
// Each archive is verified against published SHA256 checksum. A
// database file is replaced atomically, so concurrent readers never see
// partially written files.
func (m *MaxmindDownloader) Download(ctx context.Context, editions ...string) error {
	if len(editions) == 0 {
		editions = []string{MaxmindCountryEdition, MaxmindASNEdition}
	}

	if err := m.fs.MkdirAll(m.directory, 0o755); err != nil {
		return fmt.Errorf("cannot create a directory %s: %w", m.directory, err)
	}

	for _, v := range editions {
		if err := m.downloadEdition(ctx, v); err != nil {
			return fmt.Errorf("cannot download %s: %w", v, err)
		}
	}

	return nil
}

// Path returns a path to the database of the given edition.
func (m *MaxmindDownloader) Path(edition string) string {
	return filepath.Join(m.directory, edition+maxmindDatabaseExt)
}

func (m *MaxmindDownloader) downloadEdition(ctx context.Context, edition string) error {
	expectedChecksum, err := m.downloadChecksum(ctx, edition)
	if err != nil {
		return fmt.Errorf("cannot download a checksum: %w", err)
	}

	archiveFile, err := afero.TempFile(m.fs, m.directory, "tmp_archive_")
	if err != nil {
		return fmt.Errorf("cannot create an archive file: %w", err)
	}

	archiveName := archiveFile.Name()

	defer func() {
		archiveFile.Close()
		m.fs.Remove(archiveName) // nolint: errcheck
	}()

	actualChecksum, err := m.downloadArchive(ctx, edition, archiveFile)
	if err != nil {
		return fmt.Errorf("cannot download an archive: %w", err)
	}

	if !strings.EqualFold(expectedChecksum, actualChecksum) {
		return fmt.Errorf("%w: expected=%s, actual=%s",
			ErrChecksumMismatch,
			expectedChecksum,
			actualChecksum)
	}

	if _, err := archiveFile.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("cannot rewind an archive: %w", err)
	}

	databaseFile, err := afero.TempFile(m.fs, m.directory, "tmp_database_")
	if err != nil {
		return fmt.Errorf("cannot create a file for a database: %w", err)
	}

	databaseName := databaseFile.Name()

	defer m.fs.Remove(databaseName) // nolint: errcheck

	err = m.extractArchive(archiveFile, databaseFile)

	databaseFile.Close()

	if err != nil {
		return fmt.Errorf("cannot extract archive: %w", err)
	}

	if err := m.fs.Rename(databaseName, m.Path(edition)); err != nil {
		return fmt.Errorf("cannot move a database into %s: %w", m.Path(edition), err)
	}

	return nil
}

func (m *MaxmindDownloader) downloadChecksum(ctx context.Context, edition string) (string, error) {
	resp, err := m.get(ctx, edition, "tar.gz.sha256")
	if err != nil {
		return "", err
	}

	defer flushResponse(resp.Body)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("cannot read body of the response: %w", err)
	}

	fields := bytes.Fields(data)
	if len(fields) == 0 {
		return "", fmt.Errorf("incorrect response format: %q", data)
	}

	if !maxmindChecksumRegexp.Match(fields[0]) {
		return "", fmt.Errorf("incorrect checksum format: %q", fields[0])
	}

	return string(fields[0]), nil
}

func (m *MaxmindDownloader) downloadArchive(ctx context.Context, edition string, dst io.Writer) (string, error) {
	resp, err := m.get(ctx, edition, "tar.gz")
	if err != nil {
		return "", err
	}

	defer flushResponse(resp.Body)

	checksum, err := hashedCopyResponse(sha256.New, dst, resp.Body)
	if err != nil {
		return "", fmt.Errorf("cannot copy file into fs: %w", err)
	}

	return checksum, nil
}

func (m *MaxmindDownloader) extractArchive(archive io.Reader, dst io.Writer) error {
	ungzipReader, err := gzip.NewReader(archive)
	if err != nil {
		return fmt.Errorf("cannot create a gzip reader: %w", err)
	}

	defer ungzipReader.Close()

	tarReader := tar.NewReader(ungzipReader)

	for {
		header, err := tarReader.Next()

		switch {
		case err == io.EOF:
			return ErrNoFile
		case err != nil:
			return fmt.Errorf("cannot extract a header: %w", err)
		case header.Linkname != "", header.FileInfo().IsDir():
			continue
		case strings.EqualFold(filepath.Ext(header.Name), maxmindDatabaseExt):
			if _, err := io.Copy(dst, tarReader); err != nil { // nolint: gosec
				return fmt.Errorf("cannot copy into a database file: %w", err)
			}

			return nil
		}
	}
}

func (m *MaxmindDownloader) get(ctx context.Context, edition, suffix string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.buildURL(edition, suffix), nil)
	if err != nil {
		return nil, fmt.Errorf("cannot build a request: %w", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot send a request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		flushResponse(resp.Body)

		return nil, fmt.Errorf("%w: %d", querylib.ErrUnexpectedStatus, resp.StatusCode)
	}

	return resp, nil
}

func (m *MaxmindDownloader) buildURL(edition, suffix string) string {
	queryValues := url.Values{}

	queryValues.Set("edition_id", edition)
	queryValues.Set("suffix", suffix)
	queryValues.Set("license_key", m.licenseKey)

	urlStruct := url.URL{
		Scheme:   "https",
		Host:     "download.maxmind.com",
		Path:     "/app/geoip_download",
		RawQuery: queryValues.Encode(),
	}

	return urlStruct.String()
}

// NewMaxmindDownloader returns a downloader of GeoLite2 databases.
// MaxMind requires a license key even for free databases, you can get
// it after registration on https://www.maxmind.com.
func NewMaxmindDownloader(httpClient querylib.HTTPClient,
	fs afero.Fs,
	directory string,
	licenseKey string) (*MaxmindDownloader, error) {
	if licenseKey == "" {
		return nil, ErrLicenseKeyIsRequired
	}

	if fs == nil {
		fs = afero.NewOsFs()
	}

	if directory == "" {
		directory = DefaultDatabaseDirectory
	}

	return &MaxmindDownloader{
		fs:         fs,
		directory:  filepath.Clean(directory),
		licenseKey: licenseKey,
		httpClient: httpClient,
	}, nil
}
