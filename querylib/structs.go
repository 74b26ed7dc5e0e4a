package querylib

import "net"

// Record is a result of the IP query. Zero values mean absence: an
// empty string is an unknown name or code, ASN 0 is reserved by IANA and
// never assigned to a real network.
type Record struct {
	IP          net.IP `json:"ip,omitempty"`
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	ASN         uint   `json:"asn,omitempty"`
	ASO         string `json:"aso,omitempty"`
}

// OK tells if record has an IP address.
func (r Record) OK() bool {
	return len(r.IP) != 0
}

// GeoComplete tells if all geographic and network ownership fields are
// populated. Resolver uses it to decide if it has to consult a geo
// database.
func (r Record) GeoComplete() bool {
	return r.Country != "" && r.CountryCode != "" && r.ASN != 0 && r.ASO != ""
}
