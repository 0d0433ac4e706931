package measure

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// fileNamePattern encodes the lab naming convention:
// <experiment>_<condition>_<image><marker>.<ext>, e.g. 003_GST_010L.json.
var fileNamePattern = regexp.MustCompile(`^(\d+)_([A-Za-z]+)_(\d+)([LT]?)\.(xlsx?|csv|json)$`)

// ParseFileName extracts a FileDescriptor from a data file path. The second
// return value is false when the base name does not follow the naming
// convention; such files are excluded from directory scans.
func ParseFileName(path string) (FileDescriptor, bool) {
	base := filepath.Base(path)
	m := fileNamePattern.FindStringSubmatch(base)
	if m == nil {
		return FileDescriptor{}, false
	}

	experiment, err := strconv.Atoi(m[1])
	if err != nil {
		return FileDescriptor{}, false
	}
	image, err := strconv.Atoi(m[3])
	if err != nil {
		return FileDescriptor{}, false
	}

	return FileDescriptor{
		Path:            path,
		ExperimentIndex: experiment,
		Condition:       m[2],
		ImageIndex:      image,
		DatasetMarker:   m[4],
		Format:          FileFormat(m[5]),
	}, true
}

// FormatForExtension maps a file extension (with or without leading dot,
// any case) to its FileFormat. The second return value is false for
// unsupported extensions.
func FormatForExtension(ext string) (FileFormat, bool) {
	ext = strings.TrimPrefix(ext, ".")
	switch strings.ToLower(ext) {
	case "csv":
		return FormatCSV, true
	case "xlsx":
		return FormatXLSX, true
	case "xls":
		return FormatXLS, true
	case "json":
		return FormatJSON, true
	}
	return "", false
}
