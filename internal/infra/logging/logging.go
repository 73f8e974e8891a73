package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	generalFile = "bot-general.log"
	errorsFile  = "bot-errors.log"
)

// Setup instala el logger global: consola siempre y, con dir, dos archivos
// (todo en bot-general.log, error+ en bot-errors.log). Devuelve un close para los archivos.
func Setup(level, dir string) (func(), error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	if dir == "" {
		log.Logger = zerolog.New(console).With().Timestamp().Logger()
		return func() {}, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("log dir: %w", err)
	}
	general, err := os.OpenFile(filepath.Join(dir, generalFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	errs, err := os.OpenFile(filepath.Join(dir, errorsFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		_ = general.Close()
		return nil, err
	}

	w := zerolog.MultiLevelWriter(console, general, minLevel{w: errs, min: zerolog.ErrorLevel})
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	return func() {
		_ = general.Close()
		_ = errs.Close()
	}, nil
}

// minLevel deja pasar sólo eventos de min para arriba.
type minLevel struct {
	w   io.Writer
	min zerolog.Level
}

func (m minLevel) Write(p []byte) (int, error) { return m.w.Write(p) }

func (m minLevel) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l < m.min {
		return len(p), nil
	}
	return m.w.Write(p)
}
