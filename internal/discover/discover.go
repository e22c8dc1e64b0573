// Package discover locates Claude Code transcript files under the projects
// directory (~/.claude/projects by default).
package discover

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/johns/sessionlens/internal/archive"
)

var uuidPattern = regexp.MustCompile(
	`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.jsonl(\.zst)?$`)

// TranscriptFile represents a discovered transcript on disk.
type TranscriptFile struct {
	Path      string
	SessionID string // UUID extracted from the filename
	Project   string // decoded project path
	ModTime   time.Time
}

// Options filter the discovery walk.
type Options struct {
	DaysBack int    // 0 means no cutoff
	Project  string // substring match on the decoded project name, "" matches all
}

// Discover walks projectsDir and returns all transcript files with valid
// UUID filenames, newest first. Agent sub-session files (agent-*.jsonl) are
// skipped; compressed transcripts are picked up alongside plain ones.
func Discover(projectsDir string, opts Options) ([]TranscriptFile, error) {
	entries, err := os.ReadDir(projectsDir)
	if err != nil {
		return nil, err
	}

	var cutoff time.Time
	if opts.DaysBack > 0 {
		cutoff = time.Now().AddDate(0, 0, -opts.DaysBack)
	}

	var results []TranscriptFile
	for _, dir := range entries {
		if !dir.IsDir() {
			continue
		}

		project := DecodeProjectName(dir.Name())
		if opts.Project != "" && !strings.Contains(strings.ToLower(project), strings.ToLower(opts.Project)) {
			continue
		}

		files, err := os.ReadDir(filepath.Join(projectsDir, dir.Name()))
		if err != nil {
			continue // skip unreadable project dirs
		}

		for _, f := range files {
			name := f.Name()
			if strings.HasPrefix(name, "agent-") {
				continue
			}
			if !uuidPattern.MatchString(name) {
				continue
			}

			info, err := f.Info()
			if err != nil {
				continue
			}
			if !cutoff.IsZero() && info.ModTime().Before(cutoff) {
				continue
			}

			results = append(results, TranscriptFile{
				Path:      filepath.Join(projectsDir, dir.Name(), name),
				SessionID: sessionIDFromName(name),
				Project:   project,
				ModTime:   info.ModTime(),
			})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].ModTime.After(results[j].ModTime)
	})

	return results, nil
}

// DecodeProjectName converts an encoded project directory name back to a
// readable path ("-home-user-src-app" becomes "/home/user/src/app").
func DecodeProjectName(encoded string) string {
	return strings.ReplaceAll(encoded, "-", "/")
}

// ShortProject returns the last path element of a decoded project name.
func ShortProject(project string) string {
	if idx := strings.LastIndex(project, "/"); idx >= 0 {
		return project[idx+1:]
	}
	return project
}

func sessionIDFromName(name string) string {
	name = strings.TrimSuffix(name, archive.Ext)
	return strings.TrimSuffix(name, ".jsonl")
}
