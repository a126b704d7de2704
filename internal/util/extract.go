package util

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// ExtractPDFText pulls the text layer out of every page of a PDF. Scanned
// image-only resumes yield no text and are rejected; we only handle
// digitally produced PDFs.
func ExtractPDFText(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var fullText strings.Builder
	for n := 0; n < doc.NumPage(); n++ {
		pageText, err := doc.Text(n)
		if err != nil {
			return "", fmt.Errorf("page %d: failed to extract text: %w", n+1, err)
		}
		pageText = strings.TrimSpace(pageText)
		if pageText != "" {
			fullText.WriteString(pageText)
			fullText.WriteString("\n\n")
		}
	}

	result := strings.TrimSpace(fullText.String())
	if result == "" {
		return "", fmt.Errorf("no text extracted from PDF (scanned or empty document)")
	}
	if len(result) < 100 {
		return "", fmt.Errorf("content too short for meaningful analysis")
	}
	return result, nil
}
