package providers

import (
	"fmt"

	"github.com/9seconds/ipquery/querylib"
)

const ipapiEndpoint = "http://ip-api.com/json/"

type ipapiResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	Query       string `json:"query"`
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	AS          string `json:"as"`
}

func (i *ipapiResponse) toRecord() (querylib.Record, error) {
	if i.Status != "success" {
		return querylib.Record{}, fmt.Errorf("failed to geolocate: status=%s, message=%s",
			i.Status, i.Message)
	}

	ip, err := parseIP(i.Query)
	if err != nil {
		return querylib.Record{}, err
	}

	asn, aso := parseASOrg(i.AS)

	return querylib.Record{
		IP:          ip,
		Country:     i.Country,
		CountryCode: i.CountryCode,
		ASN:         asn,
		ASO:         aso,
	}, nil
}

// NewIPAPI returns a new instance of ip-api.com provider.
//
//	Identifier: ipapi
//	Website: https://ip-api.com
//	Fields: ip, country, country_code, asn, aso
//
// Free endpoint is plain HTTP only and is limited to 45 requests per
// minute.
func NewIPAPI(client querylib.HTTPClient) querylib.Provider {
	return jsonProvider{
		name:        NameIPAPI,
		endpoint:    ipapiEndpoint,
		client:      client,
		newResponse: func() jsonResponse { return &ipapiResponse{} },
	}
}
