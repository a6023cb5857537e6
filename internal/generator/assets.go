package generator

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"time"
)

type assetCopySummary struct {
	Built   int
	Skipped int
}

// copyAssets mirrors the static directory into the output tree. Unchanged
// files are skipped when the manifest remembers their checksum.
func (s *service) copyAssets(
	ctx context.Context,
	writer artifactWriter,
	manifest *buildManifest,
	copiedAt time.Time,
) (assetCopySummary, error) {
	summary := assetCopySummary{}
	if s.deps.Static == nil {
		return summary, nil
	}

	err := fs.WalkDir(s.deps.Static, ".", func(source string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		data, err := fs.ReadFile(s.deps.Static, source)
		if err != nil {
			return err
		}

		output := source
		checksum := computeHash(data)
		if s.cfg.Incremental && manifest.shouldSkipAsset(source, checksum, output) {
			summary.Skipped++
			return nil
		}

		if err := writer.WriteFile(ctx, writeFileRequest{
			Path:     output,
			Content:  bytes.NewReader(data),
			Size:     int64(len(data)),
			Category: categoryAsset,
			Checksum: checksum,
			Metadata: map[string]string{"source": source},
		}); err != nil {
			return err
		}

		manifest.setAsset(manifestAsset{
			Source:   source,
			Output:   output,
			Checksum: checksum,
			Size:     int64(len(data)),
			CopiedAt: copiedAt,
		})
		summary.Built++
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return summary, nil
		}
		return summary, err
	}
	return summary, nil
}
