package extract

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MaxDocumentSize caps accepted resume uploads.
const MaxDocumentSize = 5 << 20

var (
	// ErrUnsupportedFile is returned for file types the reader cannot handle.
	ErrUnsupportedFile = errors.New("unsupported file format: please upload a .txt, .md or .html resume")

	// ErrFileTooLarge is returned when a document exceeds MaxDocumentSize.
	ErrFileTooLarge = fmt.Errorf("file exceeds the %d byte limit", MaxDocumentSize)
)

// ReadDocument loads a resume file and returns its plain text. HTML documents
// are stripped to their visible text; markdown and plain text pass through.
func ReadDocument(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to read resume file: %w", err)
	}
	if info.Size() > MaxDocumentSize {
		return "", ErrFileTooLarge
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to read resume file: %w", err)
	}
	defer f.Close()

	return ReadDocumentFrom(f, filepath.Base(path))
}

// ReadDocumentFrom reads resume text from an already-open source, dispatching
// on the file name's extension. The reader is capped at MaxDocumentSize.
func ReadDocumentFrom(r io.Reader, fileName string) (string, error) {
	limited := &io.LimitedReader{R: r, N: MaxDocumentSize + 1}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".txt", ".md":
		data, err := io.ReadAll(limited)
		if err != nil {
			return "", fmt.Errorf("failed to read resume file: %w", err)
		}
		if limited.N == 0 {
			return "", ErrFileTooLarge
		}
		return string(data), nil

	case ".html", ".htm":
		text, err := htmlToText(limited)
		if err != nil {
			return "", err
		}
		if limited.N == 0 {
			return "", ErrFileTooLarge
		}
		return text, nil

	default:
		return "", ErrUnsupportedFile
	}
}

// htmlToText extracts the visible text of an HTML document, dropping script
// and style content, with one line per block element.
func htmlToText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML resume: %w", err)
	}

	doc.Find("script, style").Remove()

	var lines []string
	doc.Find("h1, h2, h3, h4, h5, h6, p, li, td, div").Each(func(_ int, sel *goquery.Selection) {
		if sel.Children().Filter("h1, h2, h3, h4, h5, h6, p, li, td, div").Length() > 0 {
			return
		}
		if text := strings.TrimSpace(sel.Text()); text != "" {
			lines = append(lines, text)
		}
	})

	if len(lines) == 0 {
		return strings.TrimSpace(doc.Text()), nil
	}
	return strings.Join(lines, "\n"), nil
}
