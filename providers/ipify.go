package providers

import "github.com/9seconds/ipquery/querylib"

const ipifyEndpoint = "https://api.ipify.org?format=json"

type ipifyResponse struct {
	IP string `json:"ip"`
}

func (i *ipifyResponse) toRecord() (querylib.Record, error) {
	ip, err := parseIP(i.IP)
	if err != nil {
		return querylib.Record{}, err
	}

	return querylib.Record{IP: ip}, nil
}

// NewIPify returns a new instance of ipify provider.
//
//	Identifier: ipify
//	Website: https://www.ipify.org/
//	Fields: ip
//
// Knows nothing but IP address. A last resort.
func NewIPify(client querylib.HTTPClient) querylib.Provider {
	return jsonProvider{
		name:        NameIPify,
		endpoint:    ipifyEndpoint,
		client:      client,
		newResponse: func() jsonResponse { return &ipifyResponse{} },
	}
}
