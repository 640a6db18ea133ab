package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

const (
	colorReset = "\033[0m"

	ColorCyan   = "\033[36m"
	ColorYellow = "\033[33m"
)

// JobLogger logs a batch job (ingest, eval) to stdout in colour and to
// logs/<job>.log.
type JobLogger struct {
	*log.Logger
	file *os.File
}

type colorWriter struct {
	w     io.Writer
	color string
}

func (cw colorWriter) Write(p []byte) (int, error) {
	if cw.color == "" {
		return cw.w.Write(p)
	}
	colored := append([]byte(cw.color), p...)
	colored = append(colored, []byte(colorReset)...)
	if _, err := cw.w.Write(colored); err != nil {
		return 0, err
	}
	return len(p), nil
}

func NewJobLogger(dir, job, color string) (*JobLogger, error) {
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(filepath.Join(dir, fmt.Sprintf("%s.log", job)),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	mw := io.MultiWriter(colorWriter{w: os.Stdout, color: color}, file)
	return &JobLogger{
		Logger: log.New(mw, fmt.Sprintf("[%s] ", job), log.LstdFlags),
		file:   file,
	}, nil
}

// DiscardLogger is a JobLogger that writes nowhere, for tests and library use.
func DiscardLogger() *JobLogger {
	return &JobLogger{Logger: log.New(io.Discard, "", 0)}
}

func (j *JobLogger) Close() error {
	if j.file != nil {
		return j.file.Close()
	}
	return nil
}
