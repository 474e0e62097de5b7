// Package document reads source report files and returns their raw text.
// Purely I/O: no merge or extraction logic lives here.
package document

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Load returns the text content of a .txt or .pdf file.
func Load(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("document not found: %s", path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		return loadPDF(path)
	case ".txt":
		return loadText(path)
	default:
		return "", fmt.Errorf("unsupported file type '%s' (supported: .pdf, .txt)", ext)
	}
}

func loadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func loadPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract text from PDF %s: %w", path, err)
	}
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", fmt.Errorf("failed to extract text from PDF %s: %w", path, err)
	}

	text := strings.TrimSpace(buf.String())
	if text == "" {
		return "", fmt.Errorf("no extractable text in PDF %s", path)
	}
	return text, nil
}
