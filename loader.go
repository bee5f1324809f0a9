package folio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ReadRecords decodes a headered CSV stream into raw records. The reader is
// consumed fully; record order is preserved.
func ReadRecords(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // brokers pad or truncate trailing columns

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var records []Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		rec := make(Record, len(header))
		for i, name := range header {
			if i < len(row) {
				rec[name] = row[i]
			}
		}
		records = append(records, rec)
	}
}

// LoadSource reads one broker export file into a Source.
func LoadSource(tag, path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return Source{}, err
	}
	defer f.Close()
	records, err := ReadRecords(f)
	if err != nil {
		return Source{}, fmt.Errorf("reading %q: %w", path, err)
	}
	return Source{Tag: tag, Records: records}, nil
}

// LoadSourceDir reads every CSV file of a directory as one broker's exports,
// in lexical filename order so overlapping export windows replay
// deterministically.
func LoadSourceDir(tag, dir string) (Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Source{}, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	src := Source{Tag: tag}
	for _, name := range names {
		part, err := LoadSource(tag, filepath.Join(dir, name))
		if err != nil {
			return Source{}, err
		}
		src.Records = append(src.Records, part.Records...)
	}
	return src, nil
}
