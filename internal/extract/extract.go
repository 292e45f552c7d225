package extract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Supported reports whether File can read a file with this name.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".txt":
		return true
	}
	return false
}

// File returns the text of a statement. PDFs are extracted page by page and
// joined in page order; .txt files are returned verbatim.
func File(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return PDF(path)
	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported statement file %q: want .pdf or .txt", filepath.Base(path))
	}
}

// PDF extracts the text of every page, one text row per line.
func PDF(path string) (text string, err error) {
	// The pdf library panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading PDF %s: %v", filepath.Base(path), r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return "", fmt.Errorf("PDF %s has no pages", filepath.Base(path))
	}

	pages := pagesByRow(r, numPages)
	if strings.TrimSpace(strings.Join(pages, "")) != "" {
		return strings.Join(pages, "\n"), nil
	}

	// Row grouping found nothing; fall back to the plain text stream.
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting text from %s: %w", filepath.Base(path), err)
	}
	data, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("extracting text from %s: %w", filepath.Base(path), err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("no text in %s; scanned statements are not supported", filepath.Base(path))
	}
	return string(data), nil
}

func pagesByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			parts := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := JoinWords(parts); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// JoinWords joins the text runs of one row with single spaces, collapsing
// any whitespace the runs already carry.
func JoinWords(parts []string) string {
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
