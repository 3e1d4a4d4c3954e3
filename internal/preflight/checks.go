package preflight

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/sys/unix"

	"barrel/internal/config"
	"barrel/internal/ingest"
)

// Access is the permission set a directory check requires.
type Access uint32

const (
	AccessRead      Access = unix.R_OK | unix.X_OK
	AccessReadWrite Access = unix.R_OK | unix.W_OK | unix.X_OK
)

func (a Access) String() string {
	if a&unix.W_OK != 0 {
		return "read/write"
	}
	return "read"
}

// CheckDirectoryAccess verifies that the directory exists and grants access.
func CheckDirectoryAccess(name, path string, access Access) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, uint32(access)); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s ok)", path, access)}
}

// CheckExports verifies that every configured flight day has an export for
// both campaign payloads.
func CheckExports(cfg *config.Config, kind ingest.Kind) Result {
	name := fmt.Sprintf("%s exports", titleKind(kind))
	found, err := ingest.Discover(cfg.Paths.DataDir, kind, cfg.Campaign.FlightDates)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("scan failed: %v", err)}
	}
	days := cfg.Campaign.FlightDates
	if len(days) == 0 {
		for day := range found {
			days = append(days, day)
		}
		sort.Strings(days)
	}
	if len(days) == 0 {
		return Result{Name: name, Detail: "no exports found"}
	}
	var missing []string
	files := 0
	for _, day := range days {
		for _, payload := range cfg.Campaign.Payloads {
			if _, ok := found[day][payload]; ok {
				files++
				continue
			}
			missing = append(missing, payload+"@"+day)
		}
	}
	if len(missing) > 0 {
		return Result{Name: name, Detail: fmt.Sprintf("missing %s", strings.Join(missing, ", "))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d files across %d days", files, len(days))}
}

func titleKind(kind ingest.Kind) string {
	s := kind.String()
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
