package providers_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/9seconds/ipquery/querylib"
	"github.com/jarcoal/httpmock"
	"github.com/maxmind/mmdbwriter"
	"github.com/maxmind/mmdbwriter/mmdbtype"
	"github.com/stretchr/testify/suite"
)

type ProviderTestSuite struct {
	suite.Suite

	http querylib.HTTPClient
}

func (suite *ProviderTestSuite) SetupTest() {
	suite.http = querylib.NewHTTPClient(&http.Client{},
		"test-agent",
		time.Millisecond,
		100)
}

type MockedProviderTestSuite struct {
	ProviderTestSuite
}

func (suite *MockedProviderTestSuite) SetupSuite() {
	httpmock.Activate()
}

func (suite *MockedProviderTestSuite) TearDownSuite() {
	httpmock.DeactivateAndReset()
}

func (suite *MockedProviderTestSuite) TearDownTest() {
	httpmock.Reset()
}

type JSONProviderTestSuite struct {
	MockedProviderTestSuite

	prov     querylib.Provider
	name     string
	endpoint string
}

func (suite *JSONProviderTestSuite) QueryWith(status int, body string) (querylib.Record, error) {
	httpmock.RegisterResponder(http.MethodGet,
		suite.endpoint,
		httpmock.NewStringResponder(status, body))

	return suite.prov.Query(context.Background())
}

func (suite *JSONProviderTestSuite) TestName() {
	suite.Equal(suite.name, suite.prov.Name())
}

func (suite *JSONProviderTestSuite) TestQueryClosedContext() {
	ctx, cancel := context.WithCancel(context.Background())

	cancel()

	_, err := suite.prov.Query(ctx)

	suite.Error(err)
}

func (suite *JSONProviderTestSuite) TestQueryFailed() {
	_, err := suite.QueryWith(http.StatusInternalServerError, "")

	suite.True(errors.Is(err, querylib.ErrUnexpectedStatus))
}

func (suite *JSONProviderTestSuite) TestQueryTransportError() {
	httpmock.RegisterResponder(http.MethodGet,
		suite.endpoint,
		httpmock.NewErrorResponder(io.ErrUnexpectedEOF))

	_, err := suite.prov.Query(context.Background())

	suite.True(errors.Is(err, io.ErrUnexpectedEOF))
}

func (suite *JSONProviderTestSuite) TestQueryBadJSON() {
	_, err := suite.QueryWith(http.StatusOK, `{[`)

	suite.Error(err)
}

func (suite *JSONProviderTestSuite) TestQueryNoIP() {
	_, err := suite.QueryWith(http.StatusOK, `{"status": "success"}`)

	suite.Error(err)
}

func makeCountryDatabase(records map[string][2]string) []byte {
	tree, err := mmdbwriter.New(mmdbwriter.Options{
		DatabaseType: "GeoLite2-Country",
		RecordSize:   24,
	})
	if err != nil {
		panic(err)
	}

	for cidr, v := range records {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(err)
		}

		err = tree.Insert(network, mmdbtype.Map{
			"country": mmdbtype.Map{
				"iso_code": mmdbtype.String(v[0]),
				"names": mmdbtype.Map{
					"en": mmdbtype.String(v[1]),
				},
			},
		})
		if err != nil {
			panic(err)
		}
	}

	return writeDatabase(tree)
}

func makeASNDatabase(records map[string]uint32, org string) []byte {
	tree, err := mmdbwriter.New(mmdbwriter.Options{
		DatabaseType: "GeoLite2-ASN",
		RecordSize:   24,
	})
	if err != nil {
		panic(err)
	}

	for cidr, v := range records {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(err)
		}

		err = tree.Insert(network, mmdbtype.Map{
			"autonomous_system_number":       mmdbtype.Uint32(v),
			"autonomous_system_organization": mmdbtype.String(org),
		})
		if err != nil {
			panic(err)
		}
	}

	return writeDatabase(tree)
}

func writeDatabase(tree *mmdbwriter.Tree) []byte {
	buf := &bytes.Buffer{}

	if _, err := tree.WriteTo(buf); err != nil {
		panic(err)
	}

	return buf.Bytes()
}
