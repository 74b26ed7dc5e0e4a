package providers

import "errors"

var (
	// ErrUnknownProvider is returned if there is no provider with a
	// given name.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrAddressNotFound is returned if geo database has no data for
	// the given IP address.
	ErrAddressNotFound = errors.New("address is not found in database")

	// ErrLicenseKeyIsRequired is returned if you are trying to
	// initialize a downloader without MaxMind license key.
	ErrLicenseKeyIsRequired = errors.New("license key is required")

	// ErrNoFile is returned if downloader has fetched an archive with
	// database but this archive has no mmdb file.
	ErrNoFile = errors.New("cannot find a database file in downloaded archive")

	// ErrChecksumMismatch is returned if downloaded archive does not
	// match a published checksum.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)
