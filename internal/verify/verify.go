// Package verify checks that converted source still parses, using esbuild
// as an independent TypeScript front end.
package verify

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// Message is one problem esbuild reported.
type Message struct {
	Line   int
	Column int
	Text   string
}

// Error lists the problems found in one file.
type Error struct {
	Path     string
	Messages []Message
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s does not parse after conversion", e.Path)
	for _, m := range e.Messages {
		fmt.Fprintf(&b, "\n  %s:%d:%d: %s", e.Path, m.Line, m.Column, m.Text)
	}
	return b.String()
}

// Supported reports whether src at path can be checked. esbuild does not
// read Flow, so only TypeScript files are.
func Supported(path string) bool {
	_, ok := loaderFor(path)
	return ok
}

// Source transforms src as the file at path and returns an *Error when
// esbuild rejects it. Unsupported files pass unchecked.
func Source(path, src string) error {
	loader, ok := loaderFor(path)
	if !ok {
		return nil
	}

	result := api.Transform(src, api.TransformOptions{
		Loader:     loader,
		Sourcefile: path,
		LogLevel:   api.LogLevelSilent,
	})
	if len(result.Errors) == 0 {
		return nil
	}

	verr := &Error{Path: path}
	for _, msg := range result.Errors {
		m := Message{Text: msg.Text}
		if msg.Location != nil {
			m.Line = msg.Location.Line
			m.Column = msg.Location.Column
		}
		verr.Messages = append(verr.Messages, m)
	}
	return verr
}

func loaderFor(path string) (api.Loader, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return api.LoaderTS, true
	case ".tsx":
		return api.LoaderTSX, true
	}
	return api.LoaderNone, false
}
