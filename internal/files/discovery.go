package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"censuscli/internal/config"
)

// snapshotExtensions are the raw snapshot formats the cleaner ingests.
var snapshotExtensions = map[string]bool{
	config.SnapshotExtCSV:  true,
	config.SnapshotExtData: true,
	config.SnapshotExtXLSX: true,
}

// FileInfo describes a snapshot file found on disk
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery locates raw census snapshots in the raw data directory.
type Discovery struct {
	rawDir string
}

// NewDiscovery creates a discovery instance rooted at the raw data directory
func NewDiscovery(rawDir string) *Discovery {
	return &Discovery{rawDir: rawDir}
}

// FindSnapshots returns the raw snapshots (.csv, .data, .xlsx) in the raw
// directory, sorted oldest first by modification time. Excel lock files
// (~$ prefix) are skipped.
func (d *Discovery) FindSnapshots() ([]FileInfo, error) {
	entries, err := os.ReadDir(d.rawDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", d.rawDir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasPrefix(name, "~$") {
			continue
		}
		if !snapshotExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(d.rawDir, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	// Oldest first by modification time
	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.Before(files[j].ModTime)
	})

	return files, nil
}

// LatestSnapshot returns the most recently modified snapshot, or false when
// the raw directory holds none.
func (d *Discovery) LatestSnapshot() (FileInfo, bool, error) {
	files, err := d.FindSnapshots()
	if err != nil {
		return FileInfo{}, false, err
	}
	latest, ok := GetLatestFile(files)
	return latest, ok, nil
}

// GetLatestFile picks the most recently modified of the given files
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if file.ModTime.After(latest.ModTime) {
			latest = file
		}
	}

	return latest, true
}
