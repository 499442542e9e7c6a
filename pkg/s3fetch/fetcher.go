package s3fetch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/retailops/seller-report/internal/logctx"
	"github.com/retailops/seller-report/pkg/logging"
)

// FetchConfig configures the data-file fetch operation.
type FetchConfig struct {
	// DownloadDir is the local directory to download data files to.
	DownloadDir string
	// Concurrency is the number of parallel downloads (default: 4).
	Concurrency int
}

// Fetcher downloads sales data files referenced by s3:// URIs.
type Fetcher struct {
	client     *Client
	downloader *Downloader
	cfg        FetchConfig
	log        zerolog.Logger
}

// NewFetcher creates a new data-file fetcher.
func NewFetcher(client *Client, cfg FetchConfig) *Fetcher {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &Fetcher{
		client:     client,
		downloader: NewDownloader(client.s3Client, DefaultDownloaderConfig()),
		cfg:        cfg,
		log:        logging.WithStage("s3fetch"),
	}
}

// Fetch downloads every URI into the download directory and returns the
// local paths, index-aligned with the input URIs.
func (f *Fetcher) Fetch(ctx context.Context, uris []string) ([]string, error) {
	if err := os.MkdirAll(f.cfg.DownloadDir, 0755); err != nil {
		return nil, fmt.Errorf("create download dir: %w", err)
	}

	localFiles := make([]string, len(uris))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.cfg.Concurrency)

	for i, uri := range uris {
		i, uri := i, uri
		g.Go(func() error {
			bucket, key, err := ParseS3URI(uri)
			if err != nil {
				return fmt.Errorf("parse %s: %w", uri, err)
			}

			localPath := filepath.Join(f.cfg.DownloadDir, sanitizeFilename(key))
			fileCtx := logctx.WithStr(gctx, "source", uri)

			if err := f.fetchFile(fileCtx, bucket, key, localPath); err != nil {
				return err
			}

			localFiles[i] = localPath
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("download data files: %w", err)
	}

	f.log.Info().
		Int("files", len(uris)).
		Str("download_dir", f.cfg.DownloadDir).
		Msg("staged input files")

	return localFiles, nil
}

// fetchFile downloads one object. Parquet exports can be large, so they
// go through the parallel download manager; the JSON inputs are small
// and stream straight to disk.
func (f *Fetcher) fetchFile(ctx context.Context, bucket, key, localPath string) error {
	log := logctx.FromContext(ctx)

	if isParquetKey(key) {
		result, err := f.downloader.DownloadToFile(ctx, bucket, key, localPath)
		if err != nil {
			return err
		}
		log.Debug().
			Int64("bytes", result.BytesDownloaded).
			Dur("elapsed", result.Duration).
			Str("local_path", localPath).
			Int("part_concurrency", f.downloader.Config().Concurrency).
			Msg("downloaded data file")
		return nil
	}

	body, err := f.client.StreamObject(ctx, bucket, key)
	if err != nil {
		return err
	}
	n, err := copyToFile(localPath, body)
	if err != nil {
		return fmt.Errorf("stage s3://%s/%s: %w", bucket, key, err)
	}
	log.Debug().
		Int64("bytes", n).
		Str("local_path", localPath).
		Msg("streamed data file")
	return nil
}

// isParquetKey reports whether the object key names a Parquet file.
func isParquetKey(key string) bool {
	return strings.EqualFold(filepath.Ext(key), ".parquet")
}

// copyToFile writes the reader to a local file, closing the reader. The
// partial file is removed on a failed copy.
func copyToFile(path string, r io.ReadCloser) (int64, error) {
	defer r.Close()

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}

	n, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(path)
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close %s: %w", path, err)
	}
	return n, nil
}

// sanitizeFilename flattens an S3 key into a safe local filename.
func sanitizeFilename(key string) string {
	return strings.ReplaceAll(key, "/", "_")
}
