package ingest

import (
	"os"
	"path/filepath"
	"sort"

	"morpho/domain/measure"
	"morpho/internal/errors"
)

// ScanDirectory lists the data files in a directory whose names follow the
// lab convention, in name order. Non-matching files are skipped silently.
func ScanDirectory(dir string) ([]measure.FileDescriptor, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to scan directory %s", dir)
	}

	var descs []measure.FileDescriptor
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		desc, ok := measure.ParseFileName(filepath.Join(dir, entry.Name()))
		if !ok {
			continue
		}
		descs = append(descs, desc)
	}

	sort.Slice(descs, func(i, j int) bool { return descs[i].Path < descs[j].Path })
	return descs, nil
}

// DetectMarkers returns the sorted set of dataset markers present in a scan
// result. An empty slice means the file set is not split into sub-datasets.
func DetectMarkers(descs []measure.FileDescriptor) []string {
	set := make(map[string]struct{})
	for _, d := range descs {
		if d.DatasetMarker != "" {
			set[d.DatasetMarker] = struct{}{}
		}
	}
	markers := make([]string, 0, len(set))
	for m := range set {
		markers = append(markers, m)
	}
	sort.Strings(markers)
	return markers
}
