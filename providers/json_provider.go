package providers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/9seconds/ipquery/querylib"
)

// jsonResponse is a provider-specific response schema which knows how
// to map itself into a record.
type jsonResponse interface {
	toRecord() (querylib.Record, error)
}

// jsonProvider is a generic web service which responds with JSON on
// a GET request. Each concrete provider is just a name, an endpoint and
// a response schema.
type jsonProvider struct {
	name        string
	endpoint    string
	client      querylib.HTTPClient
	newResponse func() jsonResponse
}

func (j jsonProvider) Name() string {
	return j.name
}

func (j jsonProvider) Query(ctx context.Context) (querylib.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, j.endpoint, nil)
	if err != nil {
		return querylib.Record{}, fmt.Errorf("cannot build a request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := j.client.Do(req)
	if err != nil {
		return querylib.Record{}, fmt.Errorf("cannot send a request: %w", err)
	}

	defer flushResponse(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return querylib.Record{}, fmt.Errorf("%w: %d", querylib.ErrUnexpectedStatus, resp.StatusCode)
	}

	jsonResponse := j.newResponse()
	jsonDecoder := json.NewDecoder(bufio.NewReader(resp.Body))

	if err := jsonDecoder.Decode(jsonResponse); err != nil {
		return querylib.Record{}, fmt.Errorf("cannot parse a response: %w", err)
	}

	rv, err := jsonResponse.toRecord()
	if err != nil {
		return querylib.Record{}, fmt.Errorf("cannot map a response: %w", err)
	}

	return rv, nil
}
