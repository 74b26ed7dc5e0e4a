package providers

import "github.com/9seconds/ipquery/querylib"

const ipsbEndpoint = "https://api.ip.sb/geoip"

type ipsbResponse struct {
	IP           string `json:"ip"`
	Country      string `json:"country"`
	CountryCode  string `json:"country_code"`
	ASN          uint   `json:"asn"`
	Organization string `json:"organization"`
}

func (i *ipsbResponse) toRecord() (querylib.Record, error) {
	ip, err := parseIP(i.IP)
	if err != nil {
		return querylib.Record{}, err
	}

	return querylib.Record{
		IP:          ip,
		Country:     i.Country,
		CountryCode: i.CountryCode,
		ASN:         i.ASN,
		ASO:         i.Organization,
	}, nil
}

// NewIPSB returns a new instance of ip.sb provider.
//
//	Identifier: ipsb
//	Website: https://ip.sb/api/
//	Fields: ip, country, country_code, asn, aso
//
// Free, no token is required. The richest of default providers so it
// goes first.
func NewIPSB(client querylib.HTTPClient) querylib.Provider {
	return jsonProvider{
		name:        NameIPSB,
		endpoint:    ipsbEndpoint,
		client:      client,
		newResponse: func() jsonResponse { return &ipsbResponse{} },
	}
}
