package checks

import (
	"context"
	"fmt"
	"strings"

	"mapwize-api/core/storage"

	"go.uber.org/zap"
)

// RequiredFolders returns the prefixes the service reads manifests from and writes
// reports to, without trailing slash.
func RequiredFolders(cfg storage.Config) []string {
	var folders []string
	for _, prefix := range []string{cfg.ManifestPrefix, cfg.ReportPrefix} {
		if p := strings.Trim(prefix, "/"); p != "" {
			folders = append(folders, p)
		}
	}
	return folders
}

// CheckStructure returns a list of missing folders. Every folder is missing when the
// bucket itself does not exist.
func CheckStructure(ctx context.Context, client storage.Client, bucket string, folders []string) ([]string, error) {
	if client == nil {
		return nil, fmt.Errorf("object storage is not enabled")
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return append([]string{}, folders...), nil
	}

	missing := []string{}
	for _, folder := range folders {
		found, err := storage.PrefixExists(ctx, client, bucket, folder+"/")
		if err != nil {
			return nil, err
		}
		if !found {
			missing = append(missing, folder)
		}
	}

	return missing, nil
}

// FixStructure creates the bucket if needed, then the missing folders.
func FixStructure(ctx context.Context, client storage.Client, bucket, region string, logger *zap.Logger, missing []string) error {
	if client == nil {
		return fmt.Errorf("object storage is not enabled")
	}
	if err := storage.EnsureBucket(ctx, client, bucket, region); err != nil {
		return err
	}
	for _, folder := range missing {
		if err := storage.MarkPrefix(ctx, client, bucket, folder); err != nil {
			logger.Error("Failed to create folder", zap.String("folder", folder), zap.Error(err))
			return err
		}
		logger.Info("Created missing folder", zap.String("folder", folder))
	}
	return nil
}
