package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/retailops/seller-report/pkg/report"
)

// purchaseLine is one flattened purchase row as exported by the sales
// platform: one row per purchased item, with the order-level fields
// repeated on every row of the same order.
type purchaseLine struct {
	OrderID     string
	SellerID    int64
	TotalAmount float64
	SKU         string
	Quantity    int64
	SalePrice   float64
	Discount    float64
}

// lineColumns holds the leaf column indices of the purchase line schema,
// -1 for optional columns that are absent.
type lineColumns struct {
	orderID     int
	sellerID    int
	totalAmount int
	sku         int
	quantity    int
	salePrice   int
	discount    int
}

// detectLineColumns maps the Parquet schema's field names to column
// indices. order_id, seller_id, sku and quantity are required;
// total_amount, sale_price and discount default to 0 when absent.
func detectLineColumns(schema *parquet.Schema) (lineColumns, error) {
	cols := lineColumns{
		orderID:     -1,
		sellerID:    -1,
		totalAmount: -1,
		sku:         -1,
		quantity:    -1,
		salePrice:   -1,
		discount:    -1,
	}

	for i, field := range schema.Fields() {
		switch field.Name() {
		case "order_id":
			cols.orderID = i
		case "seller_id":
			cols.sellerID = i
		case "total_amount":
			cols.totalAmount = i
		case "sku":
			cols.sku = i
		case "quantity":
			cols.quantity = i
		case "sale_price":
			cols.salePrice = i
		case "discount":
			cols.discount = i
		}
	}

	for _, required := range []struct {
		name string
		col  int
	}{
		{"order_id", cols.orderID},
		{"seller_id", cols.sellerID},
		{"sku", cols.sku},
		{"quantity", cols.quantity},
	} {
		if required.col < 0 {
			return cols, fmt.Errorf("parquet schema missing %q column", required.name)
		}
	}

	return cols, nil
}

// ReadPurchasesParquet reads a flattened purchase-line Parquet file and
// regroups the lines into purchase records. Lines sharing an order_id
// merge into one record; record order and item order both follow first
// encounter in the file.
func ReadPurchasesParquet(path string) ([]report.PurchaseRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open purchases file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat purchases file: %w", err)
	}

	file, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}

	cols, err := detectLineColumns(file.Schema())
	if err != nil {
		return nil, err
	}

	lines, err := readLines(file, cols)
	if err != nil {
		return nil, err
	}

	return groupLines(lines), nil
}

// readLines iterates all row groups and converts each row to a
// purchaseLine.
func readLines(file *parquet.File, cols lineColumns) ([]purchaseLine, error) {
	var lines []purchaseLine
	rowBuf := make([]parquet.Row, 1024)

	for _, rg := range file.RowGroups() {
		rows := rg.Rows()

		for {
			n, err := rows.ReadRows(rowBuf)
			for i := 0; i < n; i++ {
				lines = append(lines, rowToLine(rowBuf[i], cols))
			}
			if err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				rows.Close()
				return nil, fmt.Errorf("read parquet rows: %w", err)
			}
			if n == 0 {
				break
			}
		}

		if err := rows.Close(); err != nil {
			return nil, fmt.Errorf("close parquet row reader: %w", err)
		}
	}

	return lines, nil
}

func rowToLine(row parquet.Row, cols lineColumns) purchaseLine {
	var line purchaseLine

	for _, val := range row {
		if val.IsNull() {
			continue
		}

		switch val.Column() {
		case cols.orderID:
			line.OrderID = val.String()
		case cols.sellerID:
			line.SellerID = val.Int64()
		case cols.totalAmount:
			line.TotalAmount = val.Double()
		case cols.sku:
			line.SKU = val.String()
		case cols.quantity:
			line.Quantity = val.Int64()
		case cols.salePrice:
			line.SalePrice = val.Double()
		case cols.discount:
			line.Discount = val.Double()
		}
	}

	return line
}

// groupLines reassembles flattened lines into purchase records. The
// order-level fields are taken from the order's first line.
func groupLines(lines []purchaseLine) []report.PurchaseRecord {
	records := make([]report.PurchaseRecord, 0)
	indexByOrder := make(map[string]int)

	for _, line := range lines {
		i, ok := indexByOrder[line.OrderID]
		if !ok {
			i = len(records)
			indexByOrder[line.OrderID] = i
			records = append(records, report.PurchaseRecord{
				SellerID:    line.SellerID,
				TotalAmount: line.TotalAmount,
			})
		}
		records[i].Items = append(records[i].Items, report.PurchaseItem{
			SKU:       line.SKU,
			Quantity:  line.Quantity,
			SalePrice: line.SalePrice,
			Discount:  line.Discount,
		})
	}

	return records
}
