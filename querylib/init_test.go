package querylib_test

import (
	"context"
	"net"

	"github.com/9seconds/ipquery/querylib"
	"github.com/stretchr/testify/mock"
)

type ProviderMock struct {
	mock.Mock
}

func (m *ProviderMock) Query(ctx context.Context) (querylib.Record, error) {
	args := m.Called(ctx)

	return args.Get(0).(querylib.Record), args.Error(1)
}

func (m *ProviderMock) Name() string {
	return m.Called().String(0)
}

type GeoDBMock struct {
	mock.Mock
}

func (m *GeoDBMock) Lookup(ctx context.Context, ip net.IP) (querylib.Record, error) {
	args := m.Called(ctx, ip)

	return args.Get(0).(querylib.Record), args.Error(1)
}

type LoggerMock struct {
	mock.Mock
}

func (m *LoggerMock) ProviderError(name string, err error) {
	m.Called(name, err)
}

func (m *LoggerMock) GeoDBError(ip net.IP, err error) {
	m.Called(ip, err)
}

type panicProvider struct{}

func (panicProvider) Name() string {
	return "panic"
}

func (panicProvider) Query(context.Context) (querylib.Record, error) {
	panic("boom")
}
