// Package version provides build version information and runtime metadata.
package version

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Name is the program name used in version output.
const Name = "catalog-eda"

var (
	// These are set via ldflags at build time
	Version = ""
	Commit  = ""
	Date    = ""

	once sync.Once

	// runGit returns git's stdout for args. Tests replace it.
	runGit = func(ctx context.Context, args ...string) (string, error) {
		var out bytes.Buffer
		cmd := exec.CommandContext(ctx, "git", args...)
		cmd.Stdout = &out
		err := cmd.Run()
		return out.String(), err
	}
)

// gitTimeout bounds each git lookup.
const gitTimeout = 2 * time.Second

// Details is the structured form of the version information.
type Details struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func ensureInitialized() {
	once.Do(func() {
		if Date == "" {
			Date = time.Now().Format("2006-01-02")
		}
		if Commit == "" {
			Commit = git("unknown", "describe", "--always", "--dirty")
		}
		if Version == "" {
			Version = git("dev", "describe", "--tags", "--abbrev=0")
		}
	})
}

// git runs a git subcommand and returns its trimmed output, or fallback when
// git fails or prints nothing.
func git(fallback string, args ...string) string {
	ctx, cancel := context.WithTimeout(context.Background(), gitTimeout)
	defer cancel()

	out, err := runGit(ctx, args...)
	if v := strings.TrimSpace(out); err == nil && v != "" {
		return v
	}
	return fallback
}

// Reset clears cached build information so it is resolved again.
func Reset() {
	once = sync.Once{}
	Version, Commit, Date = "", "", ""
}

// GetVersion returns the release version, "dev" outside a tagged checkout.
func GetVersion() string {
	ensureInitialized()
	return Version
}

// GetCommit returns the commit the binary was built from.
func GetCommit() string {
	ensureInitialized()
	return Commit
}

// GetDate returns the build date.
func GetDate() string {
	ensureInitialized()
	return Date
}

// Get returns the full version details.
func Get() Details {
	ensureInitialized()
	return Details{
		Name:      Name,
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Info returns a one-line version string.
func Info() string {
	d := Get()
	return fmt.Sprintf("%s %s (commit: %s, built: %s, %s)",
		d.Name, d.Version, d.Commit, d.Date, d.Platform)
}
