package refine

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gradharvest/lib/scrapers/gradcafe"
)

const maxLineBytes = 1 << 20

// LoadRecords reads scraped records from either a canonical .json array or
// an append-only .jsonl log, picked by extension.
func LoadRecords(path string) ([]gradcafe.Record, error) {
	if strings.EqualFold(filepath.Ext(path), ".jsonl") {
		return loadRecordLog(path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	var records []gradcafe.Record
	err = json.Unmarshal(raw, &records)
	if err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}

func loadRecordLog(path string) ([]gradcafe.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open record log: %w", err)
	}
	defer file.Close()

	records := []gradcafe.Record{}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var record gradcafe.Record
		err = json.Unmarshal([]byte(line), &record)
		if err != nil {
			return nil, fmt.Errorf("decode record log line: %w", err)
		}
		records = append(records, record)
	}
	err = scanner.Err()
	if err != nil {
		return nil, fmt.Errorf("scan record log: %w", err)
	}
	return records, nil
}

// LoadRows reads previously cleaned rows back from disk.
func LoadRows(path string) ([]Row, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	var rows []Row
	err = json.Unmarshal(raw, &rows)
	if err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	return rows, nil
}

// WriteRows writes cleaned rows as an indented json array.
func WriteRows(path string, rows []Row) error {
	raw, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}
	err = os.WriteFile(path, raw, 0644)
	if err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}
