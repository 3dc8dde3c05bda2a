package rag

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Page is one page of source text with its locator. Plain-text files carry
// Page 0, meaning "whole file".
type Page struct {
	File string
	Page int
	Text string
}

// LoadCorpus reads every supported file under dir. A missing or unreadable
// directory yields an empty corpus; individual bad files are skipped. The
// assistant still answers (with its fixed fallback) over an empty corpus, so
// nothing here is fatal.
func LoadCorpus(dir string, logger *log.Logger) []Page {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Printf("corpus dir %s unreadable: %v", dir, err)
		return nil
	}

	var pages []Page
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".pdf":
			loaded, err := loadPDF(path, entry.Name())
			if err != nil {
				logger.Printf("skipping %s: %v", entry.Name(), err)
				continue
			}
			pages = append(pages, loaded...)
		case ".txt", ".md":
			data, err := os.ReadFile(path)
			if err != nil {
				logger.Printf("skipping %s: %v", entry.Name(), err)
				continue
			}
			text := strings.TrimSpace(string(data))
			if text == "" {
				continue
			}
			pages = append(pages, Page{File: entry.Name(), Text: text})
		}
	}
	return pages
}

func loadPDF(path, name string) ([]Page, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var pages []Page
	for i := 1; i <= reader.NumPage(); i++ {
		p := reader.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			// A single corrupt page should not sink the document.
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		pages = append(pages, Page{File: name, Page: i, Text: text})
	}
	return pages, nil
}
