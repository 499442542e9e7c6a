package s3fetch

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseS3URI(t *testing.T) {
	tests := []struct {
		uri        string
		wantBucket string
		wantKey    string
		wantErr    string
	}{
		{"s3://bucket/sellers.json", "bucket", "sellers.json", ""},
		{"s3://bucket/exports/2026/purchases.parquet", "bucket", "exports/2026/purchases.parquet", ""},
		{"https://bucket/sellers.json", "", "", "must start with s3://"},
		{"s3://", "", "", "missing bucket name"},
		{"s3://bucket", "", "", "missing object key"},
		{"s3://bucket/", "", "", "missing object key"},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, key, err := ParseS3URI(tt.uri)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("ParseS3URI(%q) expected error", tt.uri)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error = %v, want substring %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseS3URI(%q) error: %v", tt.uri, err)
			}
			if bucket != tt.wantBucket || key != tt.wantKey {
				t.Errorf("ParseS3URI(%q) = (%q, %q), want (%q, %q)",
					tt.uri, bucket, key, tt.wantBucket, tt.wantKey)
			}
		})
	}
}

func TestIsS3URI(t *testing.T) {
	if !IsS3URI("s3://bucket/key") {
		t.Error("IsS3URI(s3://bucket/key) = false, want true")
	}
	if IsS3URI("/local/path/sellers.json") {
		t.Error("IsS3URI(local path) = true, want false")
	}
}

func TestSanitizeFilename(t *testing.T) {
	got := sanitizeFilename("exports/2026/purchases.parquet")
	want := "exports_2026_purchases.parquet"
	if got != want {
		t.Errorf("sanitizeFilename = %q, want %q", got, want)
	}
}

func TestIsParquetKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"exports/2026/purchases.parquet", true},
		{"exports/2026/PURCHASES.PARQUET", true},
		{"sellers.json", false},
		{"exports/purchases.parquet.bak", false},
	}

	for _, tt := range tests {
		if got := isParquetKey(tt.key); got != tt.want {
			t.Errorf("isParquetKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestCopyToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sellers.json")
	body := io.NopCloser(strings.NewReader(`[{"id": 1}]`))

	n, err := copyToFile(path, body)
	if err != nil {
		t.Fatalf("copyToFile error: %v", err)
	}
	if n != int64(len(`[{"id": 1}]`)) {
		t.Errorf("bytes written = %d, want %d", n, len(`[{"id": 1}]`))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read staged file: %v", err)
	}
	if string(data) != `[{"id": 1}]` {
		t.Errorf("staged content = %q, want %q", data, `[{"id": 1}]`)
	}
}

func TestCopyToFileBadDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "sellers.json")

	_, err := copyToFile(path, io.NopCloser(strings.NewReader("data")))
	if err == nil {
		t.Fatal("expected error for destination in missing directory")
	}
	if !strings.Contains(err.Error(), "create") {
		t.Errorf("error = %v, want create failure", err)
	}
}

func TestDefaultDownloaderConfig(t *testing.T) {
	cfg := DefaultDownloaderConfig()
	if cfg.Concurrency < 4 || cfg.Concurrency > 16 {
		t.Errorf("Concurrency = %d, want within [4, 16]", cfg.Concurrency)
	}
	if cfg.PartSize != 16*1024*1024 {
		t.Errorf("PartSize = %d, want 16MB", cfg.PartSize)
	}
}
