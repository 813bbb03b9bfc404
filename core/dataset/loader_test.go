package dataset

import (
	"linreg/core/ml"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	in := "x,y\n0,0\n\n1, 1.5\n# comment\n2,3\n"

	ds, err := Read(strings.NewReader(in), FormatCSV, false)
	require.NoError(t, err)
	assert.Equal(t, ml.DataSet{{X: 0, Y: 0}, {X: 1, Y: 1.5}, {X: 2, Y: 3}}, ds)
}

func TestReadCSVForcedHeader(t *testing.T) {
	ds, err := Read(strings.NewReader("1,1\n2,2\n"), FormatCSV, true)
	require.NoError(t, err)
	assert.Equal(t, ml.DataSet{{X: 2, Y: 2}}, ds)
}

func TestReadCSVMalformed(t *testing.T) {
	_, err := Read(strings.NewReader("1,1\n2,abc\n"), FormatCSV, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))
	assert.Contains(t, err.Error(), "line 2")

	_, err = Read(strings.NewReader("1,1,1\n"), FormatCSV, false)
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestReadJSON(t *testing.T) {
	in := `[{"x": 1, "y": 2}, {"x": 3.5, "y": -1}]`

	ds, err := Read(strings.NewReader(in), FormatJSON, false)
	require.NoError(t, err)
	assert.Equal(t, ml.DataSet{{X: 1, Y: 2}, {X: 3.5, Y: -1}}, ds)

	_, err = Read(strings.NewReader(`[{"x": 1}]`), FormatJSON, false)
	assert.True(t, errors.Is(err, ErrMalformed))

	_, err = Read(strings.NewReader(`{`), FormatJSON, false)
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestReadUnknownFormat(t *testing.T) {
	_, err := Read(strings.NewReader(""), "xml", false)
	assert.True(t, errors.Is(err, ErrUnknownFormat))

	_, err = FormatOf("points.xml")
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "points.csv")
	jsonPath := filepath.Join(dir, "points.json")
	require.NoError(t, os.WriteFile(csvPath, []byte("1,1\n2,2\n3,3\n"), 0o644))
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[{"x":1,"y":1}]`), 0o644))

	ds, err := LoadFile(csvPath, "", false)
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Size())

	ds, err = LoadFile(jsonPath, "", false)
	require.NoError(t, err)
	assert.Equal(t, ml.DataSet{{X: 1, Y: 1}}, ds)

	_, err = LoadFile(filepath.Join(dir, "missing.csv"), "", false)
	assert.Error(t, err)
}

func TestReadCSVMalformedFirstRow(t *testing.T) {
	_, err := Read(strings.NewReader("1,2x\n2,4\n3,6\n"), FormatCSV, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))
	assert.Contains(t, err.Error(), "line 1")

	_, err = Read(strings.NewReader("1,2x\n"), FormatCSV, false)
	assert.True(t, errors.Is(err, ErrMalformed))

	// 只有表头的文件得到空数据集
	ds, err := Read(strings.NewReader("x, y\n"), FormatCSV, false)
	require.NoError(t, err)
	assert.Empty(t, ds)
}

func TestReadCSVNonFinite(t *testing.T) {
	for _, in := range []string{"1,2\n3,NaN\n", "1,2\nInf,4\n", "-inf,1\n"} {
		_, err := Read(strings.NewReader(in), FormatCSV, false)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, ErrMalformed), in)
	}
}
