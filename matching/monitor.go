package matching

import "github.com/poiesic/petmatch/core"

// RankMonitor provides hooks to observe the ranking process.
// Hooks are called from the goroutine that called Rank, in pool order.
type RankMonitor interface {
	Start(query *core.PetProfile, poolSize int)
	CandidateScored(report *core.Report, score float64)
	CandidateSkipped(report *core.Report, err error)
	Finish(candidates []core.MatchCandidate, totalScored int)
}

// noopMonitor is a no-op implementation of RankMonitor
type noopMonitor struct{}

var _ RankMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ *core.PetProfile, _ int)           {}
func (n *noopMonitor) CandidateScored(_ *core.Report, _ float64) {}
func (n *noopMonitor) CandidateSkipped(_ *core.Report, _ error)  {}
func (n *noopMonitor) Finish(_ []core.MatchCandidate, _ int)     {}
