package datasource

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// stage1Dir is the archive subdirectory holding the historical files,
// e.g. "MDataFiles_Stage1" for the men's division.
func stage1Dir(prefix string) string {
	return prefix + "DataFiles_Stage1"
}

// ZipSource reads one division's Kaggle archive. It opens the zip lazily on
// every read; the files are small and the pipeline reads each one once.
type ZipSource struct {
	path   string
	prefix string
}

// NewZipSource returns a DataSource over the archive at path for the given
// division prefix ("M" or "W").
func NewZipSource(path, prefix string) *ZipSource {
	return &ZipSource{path: path, prefix: prefix}
}

func (z *ZipSource) Prefix() string { return z.prefix }

// csvTable is a parsed CSV file: a header-name index plus the data rows.
type csvTable struct {
	columns map[string]int
	rows    [][]string
}

func (t *csvTable) field(row []string, name string) (string, error) {
	i, ok := t.columns[name]
	if !ok {
		return "", fmt.Errorf("missing column %q", name)
	}
	return row[i], nil
}

func (t *csvTable) intField(row []string, name string) (int, error) {
	s, err := t.field(row, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", name, err)
	}
	return v, nil
}

func (t *csvTable) hasColumn(name string) bool {
	_, ok := t.columns[name]
	return ok
}

func (z *ZipSource) readCSV(name string) (*csvTable, error) {
	rc, err := zip.OpenReader(z.path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", z.path, err)
	}
	defer rc.Close()

	f, err := rc.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s in %s: %w", name, z.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", name, err)
	}
	columns := make(map[string]int, len(header))
	for i, h := range header {
		columns[h] = i
	}

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		rows = append(rows, row)
	}
	return &csvTable{columns: columns, rows: rows}, nil
}

func (z *ZipSource) readStage1CSV(name string) (*csvTable, error) {
	return z.readCSV(stage1Dir(z.prefix) + "/" + name)
}
