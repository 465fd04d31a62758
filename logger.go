package main

import (
	"os"

	"github.com/9seconds/ipattrib/topolib"
	"github.com/rs/zerolog"
)

type logger struct {
	lookupLog    zerolog.Logger
	loadLog      zerolog.Logger
	admissionLog zerolog.Logger
	httpLog      zerolog.Logger
}

func (l *logger) LookupError(addr topolib.Address, name string, err error) {
	l.lookupLog.Error().Str("dataset", name).Stringer("ip", addr).Err(err).Msg("")
}

func (l *logger) LoadInfo(info topolib.DatasetInfo) {
	families := make([]string, len(info.Families))

	for i, v := range info.Families {
		families[i] = v.String()
	}

	event := l.loadLog.Info()
	if !info.Available {
		event = l.loadLog.Warn()
	}

	event.Str("dataset", info.Name).
		Str("kind", info.Kind).
		Strs("families", families).
		Bool("available", info.Available).
		Int("entries", info.Entries).
		Int("skipped", info.Skipped).
		Int("overlaps", info.Overlaps).
		Msg("Dataset is loaded")
}

func (l *logger) LoadError(name string, err error) {
	l.loadLog.Error().Str("dataset", name).Err(err).Msg("Dataset is unavailable")
}

func (l *logger) AdmissionError(key string, err error) {
	l.admissionLog.Warn().Str("caller", key).Err(err).Msg("Request is admitted without counting")
}

func (l *logger) AdmissionRejected(key string) {
	l.admissionLog.Debug().Str("caller", key).Msg("Too many requests")
}

func newLogger() *logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	return &logger{
		lookupLog:    zerolog.New(os.Stderr).With().Timestamp().Stack().Str("event_name", "lookup").Logger(),
		loadLog:      zerolog.New(os.Stderr).With().Timestamp().Str("event_name", "load").Logger(),
		admissionLog: zerolog.New(os.Stderr).With().Timestamp().Str("event_name", "admission").Logger(),
		httpLog:      zerolog.New(os.Stderr).With().Timestamp().Str("event_name", "http").Logger(),
	}
}
