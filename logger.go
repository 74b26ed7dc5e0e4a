package main

import (
	"io"
	"net"
	"time"

	"github.com/9seconds/ipquery/querylib"
	"github.com/rs/zerolog"
)

type logger struct {
	providerLog zerolog.Logger
	geodbLog    zerolog.Logger
	queryLog    zerolog.Logger
	updateLog   zerolog.Logger
}

func (l *logger) ProviderError(name string, err error) {
	l.providerLog.Warn().Str("provider", name).Err(err).Msg("Provider has failed")
}

func (l *logger) GeoDBError(ip net.IP, err error) {
	l.geodbLog.Warn().Stringer("ip", ip).Err(err).Msg("Cannot augment a record")
}

func (l *logger) QueryDone(record querylib.Record, elapsed time.Duration) {
	l.queryLog.Debug().
		Stringer("ip", record.IP).
		Bool("geo_complete", record.GeoComplete()).
		Dur("elapsed", elapsed).
		Msg("Query is finished")
}

func (l *logger) UpdateInfo(edition string) {
	l.updateLog.Info().Str("edition", edition).Msg("Database was updated")
}

func (l *logger) UpdateError(edition string, err error) {
	l.updateLog.Error().Str("edition", edition).Err(err).Msg("")
}

func newLogger(writer io.Writer, debug bool) *logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return &logger{
		providerLog: zerolog.New(writer).Level(level).With().Timestamp().Str("event_name", "provider").Logger(),
		geodbLog:    zerolog.New(writer).Level(level).With().Timestamp().Str("event_name", "geodb").Logger(),
		queryLog:    zerolog.New(writer).Level(level).With().Timestamp().Str("event_name", "query").Logger(),
		updateLog:   zerolog.New(writer).Level(level).With().Timestamp().Str("event_name", "update").Logger(),
	}
}
