// Package dataset parses raw sales data files into the in-memory bundle
// the report pipeline consumes.
//
// Sellers and products are JSON arrays. Purchase records are either a
// JSON array of nested records or a Parquet file of flattened line items
// (one row per purchased item) that gets regrouped by order id.
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/retailops/seller-report/internal/logctx"
	"github.com/retailops/seller-report/pkg/report"
)

// ReadSellers decodes a JSON array of sellers.
func ReadSellers(r io.Reader) ([]report.Seller, error) {
	var sellers []report.Seller
	if err := json.NewDecoder(r).Decode(&sellers); err != nil {
		return nil, fmt.Errorf("decode sellers: %w", err)
	}
	return sellers, nil
}

// ReadProducts decodes a JSON array of products.
func ReadProducts(r io.Reader) ([]report.Product, error) {
	var products []report.Product
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// ReadPurchases decodes a JSON array of purchase records.
func ReadPurchases(r io.Reader) ([]report.PurchaseRecord, error) {
	var records []report.PurchaseRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode purchase records: %w", err)
	}
	return records, nil
}

func readSellersFile(path string) ([]report.Seller, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sellers file: %w", err)
	}
	defer f.Close()
	return ReadSellers(f)
}

func readProductsFile(path string) ([]report.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open products file: %w", err)
	}
	defer f.Close()
	return ReadProducts(f)
}

func readPurchasesFile(path string) ([]report.PurchaseRecord, error) {
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return ReadPurchasesParquet(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open purchases file: %w", err)
	}
	defer f.Close()
	return ReadPurchases(f)
}

// LoadBundle reads the three input files into a report bundle. The
// purchases file may be JSON or Parquet, picked by extension.
func LoadBundle(ctx context.Context, sellersPath, productsPath, purchasesPath string) (*report.Bundle, error) {
	log := logctx.FromContext(ctx)

	sellers, err := readSellersFile(sellersPath)
	if err != nil {
		return nil, err
	}
	products, err := readProductsFile(productsPath)
	if err != nil {
		return nil, err
	}
	purchases, err := readPurchasesFile(purchasesPath)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Int("sellers", len(sellers)).
		Int("products", len(products)).
		Int("purchase_records", len(purchases)).
		Msg("loaded input bundle")

	return &report.Bundle{
		Sellers:         sellers,
		Products:        products,
		PurchaseRecords: purchases,
	}, nil
}
