package ingest

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var fileNamePattern = regexp.MustCompile(`(?i)^bar_([0-9a-z]+)_l2_(ephm|fspc)_(\d{8})_v(\d+)\.csv$`)

var payloadCaser = cases.Upper(language.Und)

// FileInfo describes one export file.
type FileInfo struct {
	Path    string
	Payload string
	Kind    Kind
	Day     string
	Version int
}

// NormalizePayload upper-cases a payload identifier such as "3g".
func NormalizePayload(id string) string {
	return payloadCaser.String(strings.TrimSpace(id))
}

// ParseName extracts payload, kind, day and version from a file name.
func ParseName(name string) (FileInfo, error) {
	m := fileNamePattern.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return FileInfo{}, fmt.Errorf("%q does not match bar_<payload>_l2_<ephm|fspc>_<YYYYMMDD>_v<NN>.csv", filepath.Base(name))
	}
	kind, err := ParseKind(m[2])
	if err != nil {
		return FileInfo{}, err
	}
	version, err := strconv.Atoi(m[4])
	if err != nil {
		return FileInfo{}, fmt.Errorf("parse version %q: %w", m[4], err)
	}
	return FileInfo{
		Path:    name,
		Payload: NormalizePayload(m[1]),
		Kind:    kind,
		Day:     m[3],
		Version: version,
	}, nil
}

// Discover walks dir for exports of the given kind whose flight day is in
// flightDates. The result is keyed by day then payload; when several
// versions of the same file exist the highest version wins. An empty
// flightDates keeps every day found.
func Discover(dir string, kind Kind, flightDates []string) (map[string]map[string]FileInfo, error) {
	wanted := make(map[string]struct{}, len(flightDates))
	for _, day := range flightDates {
		wanted[strings.TrimSpace(day)] = struct{}{}
	}
	found := make(map[string]map[string]FileInfo)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, perr := ParseName(path)
		if perr != nil || info.Kind != kind {
			return nil
		}
		if len(wanted) > 0 {
			if _, ok := wanted[info.Day]; !ok {
				return nil
			}
		}
		byPayload := found[info.Day]
		if byPayload == nil {
			byPayload = make(map[string]FileInfo)
			found[info.Day] = byPayload
		}
		if prev, ok := byPayload[info.Payload]; ok && prev.Version >= info.Version {
			return nil
		}
		byPayload[info.Payload] = info
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover %s files under %s: %w", kind, dir, err)
	}
	return found, nil
}
