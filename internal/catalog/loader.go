package catalog

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/shopassist-cli/internal/model"
)

// LoadXLSX reads products from the first sheet of an .xlsx export. The
// header row maps columns by name; rows missing a name or a parseable
// price are skipped with a warning rather than failing the import.
func LoadXLSX(path string) ([]model.Product, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("catalog: xlsx has no sheets")
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) < 2 {
		return nil, eris.New("catalog: xlsx has no data rows")
	}

	cols := mapColumns(rowToStrings(sheet.Rows[0]))
	if _, ok := cols["name"]; !ok {
		return nil, eris.New("catalog: xlsx missing name column")
	}
	if _, ok := cols["price"]; !ok {
		return nil, eris.New("catalog: xlsx missing price column")
	}

	var products []model.Product
	for i, row := range sheet.Rows[1:] {
		cells := rowToStrings(row)
		p, err := rowToProduct(cells, cols)
		if err != nil {
			zap.L().Warn("catalog: skipping row",
				zap.Int("row", i+2),
				zap.Error(err),
			)
			continue
		}
		if p.ID == "" {
			p.ID = "row-" + strconv.Itoa(i+2)
		}
		products = append(products, p)
	}

	zap.L().Info("catalog imported",
		zap.String("path", path),
		zap.Int("products", len(products)),
	)
	return products, nil
}

func mapColumns(header []string) map[string]int {
	aliases := map[string]string{
		"id":          "id",
		"product_id":  "id",
		"sku":         "id",
		"name":        "name",
		"product":     "name",
		"title":       "name",
		"brand":       "brand",
		"price":       "price",
		"description": "description",
		"url":         "product_url",
		"product_url": "product_url",
		"link":        "product_url",
		"image":       "image_url",
		"image_url":   "image_url",
	}

	cols := make(map[string]int)
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if canonical, ok := aliases[key]; ok {
			if _, seen := cols[canonical]; !seen {
				cols[canonical] = i
			}
		}
	}
	return cols
}

func rowToProduct(cells []string, cols map[string]int) (model.Product, error) {
	get := func(key string) string {
		i, ok := cols[key]
		if !ok || i >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[i])
	}

	name := get("name")
	if name == "" {
		return model.Product{}, eris.New("catalog: empty product name")
	}

	price, err := parsePrice(get("price"))
	if err != nil {
		return model.Product{}, err
	}

	return model.Product{
		ID:          get("id"),
		Name:        name,
		Brand:       get("brand"),
		Price:       price,
		Description: get("description"),
		ProductURL:  get("product_url"),
		ImageURL:    get("image_url"),
	}, nil
}

func parsePrice(raw string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimPrefix(raw, "$"), ",", "")
	if cleaned == "" {
		return 0, eris.New("catalog: empty price")
	}
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "catalog: parse price %q", raw)
	}
	return price, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
