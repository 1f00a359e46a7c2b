// Package extract reads plain text and layout primitives out of PDF files.
package extract

import (
	"context"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

const (
	opOpen   = "open pdf"
	opText   = "extract text"
	opLayout = "extract layout"

	pageSeparator = "\n\n"
)

// PDF extracts text and layout from PDF files on disk.
type PDF struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *PDF {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDF{logger: logger}
}

// Text returns the text of the whole document, one line per rebuilt text line and a
// blank line between pages and paragraphs. An image-only PDF yields an empty string;
// an unreadable file yields an *ExtractionError.
func (p *PDF) Text(ctx context.Context, path string) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ExtractionError{Op: opText, Path: path, Cause: recovered(r)}
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", &ExtractionError{Op: opOpen, Path: path, Cause: err}
	}
	defer f.Close()

	pages := reader.NumPage()
	texts := make([]string, 0, pages)

	for num := 1; num <= pages; num++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(num)
		if page.V.IsNull() {
			continue
		}

		if pageText := PageText(page.Content().Text); pageText != "" {
			texts = append(texts, pageText)
		}
	}

	text = strings.Join(texts, pageSeparator)

	p.logger.Debug("extracted text",
		zap.String("path", path),
		zap.Int("pages", pages),
		zap.Int("length", len(text)),
	)

	return text, nil
}

// Layout walks every page and collects font and position samples for each text run,
// plus the bullet markers used on page 1.
func (p *PDF) Layout(ctx context.Context, path string) (layout *Layout, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			layout = nil
			err = &ExtractionError{Op: opLayout, Path: path, Cause: recovered(r)}
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, &ExtractionError{Op: opOpen, Path: path, Cause: err}
	}
	defer f.Close()

	var (
		samples   []Sample
		firstPage []string
	)
	pages := reader.NumPage()

	for num := 1; num <= pages; num++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(num)
		if page.V.IsNull() {
			continue
		}

		glyphs := page.Content().Text
		runs := Runs(glyphs)
		samples = append(samples, runs...)

		if num == 1 {
			firstPage = Lines(glyphs)
		}

		p.logger.Debug("page layout", zap.String("path", path), zap.Int("page", num), zap.Int("runs", len(runs)))
	}

	return NewLayout(samples, firstPage), nil
}
