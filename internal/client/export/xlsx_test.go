package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSX(t *testing.T) {
	var buf bytes.Buffer
	headers := []string{"Name", "Blood type"}
	rows := [][]string{{"Olena Koval", "A+"}, {"Andrii Melnyk", "O-"}}
	require.NoError(t, XLSX(&buf, "donors", headers, rows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"donors"}, f.GetSheetList())
	got, err := f.GetRows("donors")
	require.NoError(t, err)
	assert.Equal(t, [][]string{headers, rows[0], rows[1]}, got)
}

func TestXLSX_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, XLSX(&buf, "", []string{"Action"}, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	got, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Action"}}, got)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "a-b", sheetName("a/b"))
	assert.Equal(t, "Sheet1", sheetName("  "))
	assert.Len(t, []rune(sheetName(strings.Repeat("x", 40))), 31)
}
