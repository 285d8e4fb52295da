package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeCatalogXLSX(t *testing.T, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Products")
	require.NoError(t, err)
	for _, cells := range rows {
		row := sheet.AddRow()
		for _, v := range cells {
			row.AddCell().Value = v
		}
	}
	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestLoadXLSX(t *testing.T) {
	path := writeCatalogXLSX(t, [][]string{
		{"ID", "Name", "Brand", "Price", "Description", "URL", "Image"},
		{"p1", "Navy Tote", "Guess", "$150.00", "Blue canvas tote", "https://shop/p1", "https://img/p1"},
		{"p2", "Black Clutch", "Calvin Klein", "89", "Leather clutch", "", ""},
	})

	products, err := LoadXLSX(path)
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, "Navy Tote", products[0].Name)
	assert.InDelta(t, 150, products[0].Price, 1e-9)
	assert.Equal(t, "https://shop/p1", products[0].ProductURL)
	assert.InDelta(t, 89, products[1].Price, 1e-9)
}

func TestLoadXLSX_SkipsBadRows(t *testing.T) {
	path := writeCatalogXLSX(t, [][]string{
		{"Name", "Price"},
		{"Good Bag", "50"},
		{"", "70"},
		{"No Price", "not-a-number"},
	})

	products, err := LoadXLSX(path)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Good Bag", products[0].Name)
	// Synthetic ID from the row number when the sheet has no id column.
	assert.Equal(t, "row-2", products[0].ID)
}

func TestLoadXLSX_MissingColumns(t *testing.T) {
	path := writeCatalogXLSX(t, [][]string{
		{"Name", "Brand"},
		{"Bag", "Guess"},
	})

	_, err := LoadXLSX(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price")
}

func TestLoadXLSX_MissingFile(t *testing.T) {
	_, err := LoadXLSX(filepath.Join(t.TempDir(), "absent.xlsx"))
	assert.Error(t, err)
}
