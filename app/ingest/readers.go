package ingest

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"KisanGPT/app/utils"
)

var ErrUnsupportedFormat = errors.New("unsupported document format")

// Reader extracts plain text from one document on disk.
type Reader interface {
	Read(ctx context.Context, path string) (string, error)
}

// CommandRunner runs an external program and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// PDFReader shells out to pdftotext (poppler-utils). Pages are separated by
// a newline.
type PDFReader struct {
	Runner CommandRunner
}

func (r PDFReader) Read(ctx context.Context, path string) (string, error) {
	runner := r.Runner
	if runner == nil {
		runner = execRunner{}
	}
	out, err := runner.Run(ctx, "pdftotext", "-enc", "UTF-8", path, "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext %s: %w (install poppler-utils)", filepath.Base(path), err)
	}
	return strings.ReplaceAll(string(out), "\f", "\n"), nil
}

type TextReader struct{}

func (TextReader) Read(_ context.Context, path string) (string, error) {
	return utils.ReadFile(path)
}

// HTMLReader keeps visible text, one block per line.
type HTMLReader struct{}

func (HTMLReader) Read(_ context.Context, path string) (string, error) {
	raw, err := utils.ReadFile(path)
	if err != nil {
		return "", err
	}
	return htmlText(raw)
}

var skippedElements = map[string]bool{"script": true, "style": true, "noscript": true, "head": true, "svg": true}

func htmlText(raw string) (string, error) {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skippedElements[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			if t := strings.Join(strings.Fields(n.Data), " "); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.Join(parts, "\n"), nil
}

// Readers picks a Reader by lower-cased file extension.
type Readers map[string]Reader

func DefaultReaders(runner CommandRunner) Readers {
	return Readers{
		".pdf":  PDFReader{Runner: runner},
		".txt":  TextReader{},
		".md":   TextReader{},
		".html": HTMLReader{},
		".htm":  HTMLReader{},
	}
}

func (r Readers) Extensions() []string {
	out := make([]string, 0, len(r))
	for ext := range r {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

func (r Readers) Read(ctx context.Context, path string) (string, error) {
	reader, ok := r[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedFormat)
	}
	return reader.Read(ctx, path)
}
