package analyze

import (
	"fmt"
	"testing"

	"github.com/johns/sessionlens/internal/session"
)

func TestAnalyzeAll_Empty(t *testing.T) {
	results := AnalyzeAll(nil, 4)
	if len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}
}

func TestAnalyzeAll_OrderPreserved(t *testing.T) {
	var records []*session.Record
	for i := 0; i < 50; i++ {
		rec := workRecord()
		rec.SessionID = fmt.Sprintf("session-%02d", i)
		records = append(records, rec)
	}

	results := AnalyzeAll(records, 8)
	if len(results) != 50 {
		t.Fatalf("got %d results, want 50", len(results))
	}
	for i, r := range results {
		want := fmt.Sprintf("session-%02d", i)
		if r.SessionID != want {
			t.Fatalf("results[%d].SessionID = %q, want %q", i, r.SessionID, want)
		}
	}
}

func TestAnalyzeAll_DefaultWorkers(t *testing.T) {
	records := []*session.Record{workRecord(), workRecord()}
	results := AnalyzeAll(records, 0)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Task.Outcome != results[1].Task.Outcome {
		t.Error("identical records should analyze identically")
	}
}

func TestAnalyzeAll_MoreWorkersThanRecords(t *testing.T) {
	results := AnalyzeAll([]*session.Record{workRecord()}, 16)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
}
