package pdf

const (
	stageLoad    = "load"
	stageProcess = "process"
	stageWrite   = "write"
)

// progressTracker は同じ割合の進捗を重複して送らないようにします。
type progressTracker struct {
	out  Reporter
	last int
}

func newProgressTracker(out Reporter) *progressTracker {
	return &progressTracker{out: out, last: -1}
}

func (p *progressTracker) report(stage string, percent int) {
	if p == nil || p.out == nil {
		return
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	if percent == p.last {
		return
	}
	p.last = percent
	p.out.Report(StatusMessage{Kind: KindProgress, Stage: stage, Percent: percent})
}

// step は process 段階 (20-80%) における done/total の進捗を送ります。
func (p *progressTracker) step(done, total int) {
	if total <= 0 {
		return
	}
	p.report(stageProcess, 20+(60*done)/total)
}
