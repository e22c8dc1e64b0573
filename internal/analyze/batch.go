package analyze

import (
	"runtime"
	"sync"

	"github.com/johns/sessionlens/internal/session"
)

// AnalyzeAll runs Analyze over a batch of records, workers at a time.
// Sessions are independent, so no coordination is needed beyond collecting
// results; output order matches input order. workers <= 0 means one worker
// per CPU.
func AnalyzeAll(records []*session.Record, workers int) []Result {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(records) {
		workers = len(records)
	}

	results := make([]Result, len(records))
	if len(records) == 0 {
		return results
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = Analyze(records[i])
			}
		}()
	}

	for i := range records {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
