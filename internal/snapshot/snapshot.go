// Package snapshot reads and writes user records as gzip-compressed JSON lines.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	gzip "github.com/klauspost/pgzip"

	"github.com/rail44/roster/internal/user"
)

var gzipMagic = []byte{0x1f, 0x8b}

// Export writes one JSON record per line to a gzip file at path
func Export(path string, records []user.Record) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := write(file, records); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	return nil
}

func write(w io.Writer, records []user.Record) error {
	compressor, err := gzip.NewWriterLevel(w, gzip.BestCompression)
	if err != nil {
		return fmt.Errorf("failed to create compressor: %w", err)
	}
	encoder := json.NewEncoder(compressor)
	for _, rec := range records {
		if err := encoder.Encode(rec); err != nil {
			compressor.Close()
			return fmt.Errorf("failed to encode record %s: %w", rec.ID, err)
		}
	}
	if err := compressor.Close(); err != nil {
		return fmt.Errorf("failed to close compressor: %w", err)
	}
	return nil
}

// Import reads records from path. Gzip files are read as JSON lines, anything
// else is parsed as a JSON array such as the endpoint returns.
func Import(path string) ([]user.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}
	records, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to import %q: %w", path, err)
	}
	return records, nil
}

// Decode parses data in either of the formats Import accepts
func Decode(data []byte) ([]user.Record, error) {
	if !bytes.HasPrefix(data, gzipMagic) {
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, nil
		}
		return user.DecodeRecords(data)
	}

	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create uncompressor: %w", err)
	}
	defer gz.Close()

	var records []user.Record
	decoder := json.NewDecoder(gz)
	for {
		var rec user.Record
		if err := decoder.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read record %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
