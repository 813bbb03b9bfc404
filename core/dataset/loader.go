// Package dataset reads observations for the regression routines from
// CSV or JSON sources.
package dataset

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"linreg/common"
	"linreg/core/ml"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

var (
	ErrUnknownFormat = errors.New("unknown data format")
	ErrMalformed     = errors.New("malformed data")
)

var log common.Logger = common.GetLogger(common.MODULE_DATA)

// FormatOf infers the format from the file extension.
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.Wrapf(ErrUnknownFormat, "cannot infer format of %s", path)
}

// LoadFile reads a data set from path. An empty format is inferred from
// the extension.
func LoadFile(path, format string, header bool) (ml.DataSet, error) {
	var err error
	if format == "" {
		if format, err = FormatOf(path); err != nil {
			return nil, err
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open data file")
	}
	defer f.Close()

	ds, err := Read(f, format, header)
	if err != nil {
		return nil, errors.WithMessagef(err, "load %s", path)
	}
	log.Debugf("loaded %d observations from %s", len(ds), path)
	return ds, nil
}

func Read(r io.Reader, format string, header bool) (ml.DataSet, error) {
	switch strings.ToLower(format) {
	case FormatCSV:
		return readCSV(r, header)
	case FormatJSON:
		return readJSON(r)
	}
	return nil, errors.Wrapf(ErrUnknownFormat, "%q", format)
}

// readCSV 读取两列 x,y；header为false时，首行两列都不是数字才视为表头
func readCSV(r io.Reader, header bool) (ml.DataSet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var ds ml.DataSet
	first := true
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(ErrMalformed, err.Error())
		}
		line, _ := cr.FieldPos(0)

		if first {
			first = false
			if header {
				continue
			}
			if isLabelRow(record) {
				continue
			}
		}

		o, err := parseRecord(record)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		ds = append(ds, o)
	}
	return ds, nil
}

// isLabelRow 形如 "x,y" 的表头行：两列都无法解析为数字
func isLabelRow(record []string) bool {
	if len(record) != 2 {
		return false
	}
	for _, field := range record {
		if _, err := strconv.ParseFloat(strings.TrimSpace(field), 64); err == nil {
			return false
		}
	}
	return true
}

func parseValue(name, field string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformed, "%s: %s", name, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Wrapf(ErrMalformed, "%s: non-finite value %q", name, field)
	}
	return v, nil
}

func parseRecord(record []string) (ml.Observation, error) {
	if len(record) != 2 {
		return ml.Observation{}, errors.Wrapf(ErrMalformed, "want 2 fields, got %d", len(record))
	}
	x, err := parseValue("x", record[0])
	if err != nil {
		return ml.Observation{}, err
	}
	y, err := parseValue("y", record[1])
	if err != nil {
		return ml.Observation{}, err
	}
	return ml.Observation{X: x, Y: y}, nil
}

// readJSON 读取 [{"x":1,"y":2}, ...]
func readJSON(r io.Reader) (ml.DataSet, error) {
	var points []struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
	}
	if err := json.NewDecoder(r).Decode(&points); err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}

	ds := make(ml.DataSet, 0, len(points))
	for i, p := range points {
		if p.X == nil || p.Y == nil {
			return nil, errors.Wrapf(ErrMalformed, "element %d: missing x or y", i)
		}
		ds = append(ds, ml.Observation{X: *p.X, Y: *p.Y})
	}
	return ds, nil
}
