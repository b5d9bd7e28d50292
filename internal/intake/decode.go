package intake

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

var (
	xmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	blankRunRe  = regexp.MustCompile(`[ \t\r\f\v\x{00A0}]+`)
	lineBreakRe = regexp.MustCompile(`\s*\n\s*`)
)

// Decode turns file bytes into plain text based on the file extension.
// PDF and DOCX are parsed; everything else is read as UTF-8 with invalid
// sequences dropped.
func Decode(name string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return decodePDF(data)
	case ".docx":
		return decodeDocx(data)
	default:
		return decodePlain(data), nil
	}
}

func decodePlain(data []byte) string {
	return normalizeWhitespace(strings.ToValidUTF8(string(data), ""))
}

// decodePDF converts panics of the pdf reader on malformed input into errors.
func decodePDF(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}
	rs, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rs); err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}
	return normalizeWhitespace(buf.String()), nil
}

func decodeDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening docx: %w", err)
	}

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("opening document.xml: %w", err)
		}
		defer rc.Close()

		doc, err := io.ReadAll(rc)
		if err != nil {
			return "", fmt.Errorf("reading document.xml: %w", err)
		}

		xml := strings.ReplaceAll(string(doc), "</w:p>", "\n")
		xml = strings.ReplaceAll(xml, "<w:tab/>", "\t")
		return normalizeWhitespace(xmlTagRe.ReplaceAllString(xml, " ")), nil
	}

	return "", errors.New("no word/document.xml in docx")
}

// normalizeWhitespace collapses blank runs and empty lines, keeping line breaks.
func normalizeWhitespace(s string) string {
	s = blankRunRe.ReplaceAllString(s, " ")
	s = lineBreakRe.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
