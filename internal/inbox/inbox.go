// Package inbox manages the directory of statements waiting to be processed.
package inbox

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/cleared-dev/splitbill/internal/extract"
)

const (
	// Dir is the subdirectory statements are dropped into.
	Dir = "inbox"
	// ProcessedDir receives statements after a successful run.
	ProcessedDir = "inbox/processed"
)

// FileInfo describes a statement file in the inbox.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// Scan returns supported statement files in <root>/inbox/, sorted by name.
func Scan(root string) ([]FileInfo, error) {
	dir := filepath.Join(root, Dir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading inbox: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !extract.Supported(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// MarkProcessed moves a file from inbox/ to inbox/processed/.
func MarkProcessed(root, fileName string) error {
	src := filepath.Join(root, Dir, fileName)
	dstDir := filepath.Join(root, ProcessedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
