package providers

import "github.com/9seconds/ipquery/querylib"

const myipEndpoint = "https://api.myip.com/"

type myipResponse struct {
	IP          string `json:"ip"`
	Country     string `json:"country"`
	CountryCode string `json:"cc"`
}

func (m *myipResponse) toRecord() (querylib.Record, error) {
	ip, err := parseIP(m.IP)
	if err != nil {
		return querylib.Record{}, err
	}

	return querylib.Record{
		IP:          ip,
		Country:     m.Country,
		CountryCode: m.CountryCode,
	}, nil
}

// NewMyIP returns a new instance of myip.com provider.
//
//	Identifier: myip
//	Website: https://www.myip.com/api-docs/
//	Fields: ip, country, country_code
func NewMyIP(client querylib.HTTPClient) querylib.Provider {
	return jsonProvider{
		name:        NameMyIP,
		endpoint:    myipEndpoint,
		client:      client,
		newResponse: func() jsonResponse { return &myipResponse{} },
	}
}
