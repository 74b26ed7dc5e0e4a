package providers

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"net"
	"strconv"
	"strings"
)

func flushResponse(resp io.ReadCloser) {
	io.Copy(io.Discard, resp) // nolint: errcheck
	resp.Close()
}

func copyResponse(dst io.Writer, src io.Reader) error {
	_, err := io.Copy(dst, bufio.NewReader(src))

	return err
}

func hashedCopyResponse(hashFunc func() hash.Hash, dst io.Writer, src io.Reader) (string, error) {
	hasher := hashFunc()
	err := copyResponse(io.MultiWriter(hasher, dst), src)

	if err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func parseIP(value string) (net.IP, error) {
	ip := net.ParseIP(strings.TrimSpace(value))
	if ip == nil {
		return nil, fmt.Errorf("incorrect ip address %q", value)
	}

	if ip4 := ip.To4(); ip4 != nil {
		return ip4, nil
	}

	return ip, nil
}

// parseASOrg splits strings like "AS15169 Google LLC" into a number and
// an organization name.
func parseASOrg(value string) (uint, string) {
	value = strings.TrimSpace(value)

	prefix, rest, _ := strings.Cut(value, " ")
	if len(prefix) < 3 || !strings.EqualFold(prefix[:2], "AS") {
		return 0, value
	}

	asn, err := strconv.ParseUint(prefix[2:], 10, 32)
	if err != nil {
		return 0, value
	}

	return uint(asn), strings.TrimSpace(rest)
}
