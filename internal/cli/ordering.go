package cli

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/statewalk/pkg/ordering"
)

// searchLogger turns OptimalSearch callbacks into log lines: the first
// solution, each improvement and a heartbeat every ten seconds.
//
// It is not safe for concurrent use.
type searchLogger struct {
	logger                   *log.Logger
	timeout                  time.Duration
	lastExplored, lastPruned int
	lastBest                 int
	start, lastLog           time.Time
	now                      func() time.Time
}

func newSearchLogger(logger *log.Logger, timeout time.Duration) *searchLogger {
	s := &searchLogger{logger: logger, timeout: timeout, lastBest: -1, now: time.Now}
	s.start = s.now()
	return s
}

func (s *searchLogger) onProgress(explored, pruned, best int) {
	s.lastExplored, s.lastPruned = explored, pruned
	if best < 0 {
		return
	}

	switch {
	case s.lastBest < 0:
		s.logger.Infof("Initial: %d crossings (explored: %d, pruned: %d)", best, explored, pruned)
		s.lastLog = s.now()
	case best < s.lastBest:
		s.logger.Infof("Improved: %d crossings (-%d)", best, s.lastBest-best)
		s.lastLog = s.now()
	case s.now().Sub(s.lastLog) >= 10*time.Second:
		elapsed := s.now().Sub(s.start).Truncate(time.Second)
		s.logger.Infof("Searching... %v/%v elapsed, %d crossings (pruned: %d)", elapsed, s.timeout, best, pruned)
		s.lastLog = s.now()
	}
	s.lastBest = best
}

// onDebug reports rows with more than 100 candidate orders, the usual
// reason a search cannot finish.
func (s *searchLogger) onDebug(info ordering.DebugInfo) {
	s.logger.Debugf("Search space: %d rows, max depth reached: %d/%d", info.TotalRows, info.MaxDepth, info.TotalRows)

	bottlenecks := 0
	for _, r := range info.Rows {
		if r.Candidates > 100 {
			s.logger.Debugf("  Row %d: %d nodes, %d candidates", r.Row, r.NodeCount, r.Candidates)
			bottlenecks++
		}
	}
	if info.MaxDepth < info.TotalRows && bottlenecks > 0 {
		s.logger.Debugf("Search incomplete: %d rows have >100 candidates", bottlenecks)
	}
}

// finish logs the final result and suggests a longer budget when the
// minimum was not proven.
func (s *searchLogger) finish(crossings int, complete bool) {
	s.logger.Infof("Best: %d crossings (explored: %d, pruned: %d)", crossings, s.lastExplored, s.lastPruned)
	if crossings > 0 && !complete {
		s.logger.Warn("Ordering may not be minimal; try a longer --timeout or --quality optimal")
	}
}
