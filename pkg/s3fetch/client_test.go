package s3fetch

import (
	"bytes"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/retailops/seller-report/pkg/logging"
)

func TestNewClientWithConfig(t *testing.T) {
	client := NewClientWithConfig(aws.Config{Region: "us-east-1"})
	if client == nil {
		t.Fatal("expected non-nil client")
	}
	if client.s3Client == nil {
		t.Error("expected client to wrap an S3 client")
	}
}

func TestNewDownloaderAppliesDefaults(t *testing.T) {
	s3Client := s3.NewFromConfig(aws.Config{Region: "us-east-1"})

	d := NewDownloader(s3Client, DownloaderConfig{})
	cfg := d.Config()
	if cfg.Concurrency < 4 || cfg.Concurrency > 16 {
		t.Errorf("Concurrency = %d, want within [4, 16]", cfg.Concurrency)
	}
	if cfg.PartSize != 16*1024*1024 {
		t.Errorf("PartSize = %d, want 16MB", cfg.PartSize)
	}
}

func TestNewFetcherDefaults(t *testing.T) {
	var buf bytes.Buffer
	logging.SetLogger(zerolog.New(&buf))

	client := NewClientWithConfig(aws.Config{Region: "us-east-1"})
	f := NewFetcher(client, FetchConfig{DownloadDir: t.TempDir()})

	if f.cfg.Concurrency != 4 {
		t.Errorf("Concurrency = %d, want default 4", f.cfg.Concurrency)
	}
	if f.downloader == nil {
		t.Fatal("expected fetcher to construct a downloader")
	}

	f.log.Info().Msg("test")
	if !bytes.Contains(buf.Bytes(), []byte(`"stage":"s3fetch"`)) {
		t.Errorf("expected stage field in fetcher log output, got: %s", buf.String())
	}
}

func TestNewDownloaderKeepsExplicitConfig(t *testing.T) {
	s3Client := s3.NewFromConfig(aws.Config{Region: "us-east-1"})

	d := NewDownloader(s3Client, DownloaderConfig{Concurrency: 2, PartSize: 1024})
	cfg := d.Config()
	if cfg.Concurrency != 2 {
		t.Errorf("Concurrency = %d, want 2", cfg.Concurrency)
	}
	if cfg.PartSize != 1024 {
		t.Errorf("PartSize = %d, want 1024", cfg.PartSize)
	}
}
