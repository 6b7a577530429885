package byguide

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// ImportDir publishes every review markdown file in dir. It returns the
// number of posts published.
func (bg *ByGuide) ImportDir(ctx context.Context, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read seed directory: %w", err)
	}

	imported := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		draft, err := ReadReviewFile(path)
		if err != nil {
			return imported, err
		}

		post, err := bg.Publish(ctx, draft)
		if err != nil {
			return imported, fmt.Errorf("failed to publish %s: %w", path, err)
		}

		bg.logger.Debug("imported review",
			slog.String("file", entry.Name()),
			slog.String("slug", post.Slug))
		imported++
	}

	return imported, nil
}

// Seed imports the sample reviews from dir if the store is empty. An already
// populated store is left untouched.
func (bg *ByGuide) Seed(ctx context.Context, dir string) (int, error) {
	posts, err := bg.store.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to check for existing posts: %w", err)
	}

	if len(posts) > 0 {
		return 0, nil
	}

	return bg.ImportDir(ctx, dir)
}
