package rag

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LoadCSVDocuments reads knowledge documents from a CSV file. Rows with
// question/answer columns become formatted FAQ documents; other rows fall
// back to joined key-value pairs. A missing file yields no documents.
func LoadCSVDocuments(path string) ([]Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	return ParseCSVDocuments(f, filepath.Base(path))
}

func ParseCSVDocuments(r io.Reader, source string) ([]Document, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("rag: reading csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var documents []Document
	for ordinal := 1; ; ordinal++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("rag: reading csv row %d: %w", ordinal, err)
		}

		row := make(map[string]string, len(header))
		for i, value := range record {
			if i >= len(header) {
				break
			}
			row[header[i]] = strings.TrimSpace(value)
		}

		question := firstOf(row, "question", "faq_question")
		answer := firstOf(row, "answer", "faq_answer")
		category := firstOf(row, "category", "insurance_type")
		if category == "" {
			category = "general"
		}

		var text string
		if question != "" || answer != "" {
			text = fmt.Sprintf("Insurance Category: %s\nQuestion: %s\nAnswer: %s", category, question, answer)
		} else {
			var pairs []string
			for _, key := range header {
				if row[key] != "" {
					pairs = append(pairs, fmt.Sprintf("%s: %s", key, row[key]))
				}
			}
			text = strings.Join(pairs, "\n")
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		documents = append(documents, Document{
			Text:     text,
			Source:   source,
			Ordinal:  ordinal,
			Category: category,
		})
	}
	return documents, nil
}

func firstOf(row map[string]string, keys ...string) string {
	for _, key := range keys {
		if v := row[key]; v != "" {
			return v
		}
	}
	return ""
}
