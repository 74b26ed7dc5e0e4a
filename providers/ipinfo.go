package providers

import (
	"strings"

	"github.com/9seconds/ipquery/querylib"
)

const ipinfoEndpoint = "https://ipinfo.io/json"

type ipinfoResponse struct {
	IP      string `json:"ip"`
	Country string `json:"country"`
	Org     string `json:"org"`
}

func (i *ipinfoResponse) toRecord() (querylib.Record, error) {
	ip, err := parseIP(i.IP)
	if err != nil {
		return querylib.Record{}, err
	}

	asn, aso := parseASOrg(i.Org)
	countryCode := strings.ToUpper(i.Country)

	return querylib.Record{
		IP:          ip,
		Country:     countryName(countryCode),
		CountryCode: countryCode,
		ASN:         asn,
		ASO:         aso,
	}, nil
}

// NewIPInfo returns a new instance of ipinfo.io provider.
//
//	Identifier: ipinfo
//	Website: https://ipinfo.io
//	Fields: ip, country, country_code, asn, aso
//
// ipinfo returns ASN and organization as a single string like "AS15169
// Google LLC" and has no country name: it is taken from ISO3166 by the
// country code.
func NewIPInfo(client querylib.HTTPClient) querylib.Provider {
	return jsonProvider{
		name:        NameIPInfo,
		endpoint:    ipinfoEndpoint,
		client:      client,
		newResponse: func() jsonResponse { return &ipinfoResponse{} },
	}
}
