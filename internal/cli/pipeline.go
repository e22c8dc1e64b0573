package cli

import (
	"fmt"
	"os"

	"github.com/johns/sessionlens/internal/analyze"
	"github.com/johns/sessionlens/internal/config"
	"github.com/johns/sessionlens/internal/discover"
	"github.com/johns/sessionlens/internal/session"
	"github.com/johns/sessionlens/internal/transcript"
)

// collectRecords builds session records either from a saved sessions file or
// by scanning the projects directory. Unreadable transcripts are skipped
// with a warning so one corrupt file cannot sink a whole run.
func collectRecords(cfg config.Config, input, project string, daysBack int) ([]*session.Record, error) {
	if input != "" {
		recs, format, err := session.Load(input)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(os.Stderr, "loaded %d sessions from %s (%s format)\n", len(recs), input, format)
		return recs, nil
	}

	files, err := discover.Discover(cfg.ProjectsDir, discover.Options{
		DaysBack: daysBack,
		Project:  project,
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", cfg.ProjectsDir, err)
	}

	recs := make([]*session.Record, 0, len(files))
	for _, f := range files {
		rec, err := recordFromFile(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", f.Path, err)
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func recordFromFile(f discover.TranscriptFile) (*session.Record, error) {
	t, err := transcript.ParseFile(f.Path)
	if err != nil {
		return nil, err
	}
	rec := session.FromTranscript(t, f.Project)
	if rec.SessionID == "" {
		rec.SessionID = f.SessionID
	}
	rec.Metadata.FullProjectPath = f.Project
	return rec, nil
}

// analyzeRecords runs the analysis pass over all records.
func analyzeRecords(cfg config.Config, recs []*session.Record) []analyze.Result {
	return analyze.AnalyzeAll(recs, cfg.Workers)
}
