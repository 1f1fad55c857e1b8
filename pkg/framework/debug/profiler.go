package debug

import (
	"fmt"
	"time"
)

// BlockProfiler measures how much of each block's real-time budget the
// process call used.
type BlockProfiler struct {
	sampleRate float64
	blocks     uint64
	busy       time.Duration
	audio      time.Duration
	worst      float64
	overruns   uint64
}

// NewBlockProfiler creates a profiler for a stream at sampleRate.
func NewBlockProfiler(sampleRate float64) *BlockProfiler {
	return &BlockProfiler{sampleRate: sampleRate}
}

// Record notes that a block of n samples took elapsed to process.
func (p *BlockProfiler) Record(n int, elapsed time.Duration) {
	if n <= 0 || p.sampleRate <= 0 {
		return
	}
	budget := time.Duration(float64(n) / p.sampleRate * float64(time.Second))
	p.blocks++
	p.busy += elapsed
	p.audio += budget

	load := float64(elapsed) / float64(budget)
	if load > p.worst {
		p.worst = load
	}
	if elapsed > budget {
		p.overruns++
	}
}

// Blocks returns the number of blocks recorded.
func (p *BlockProfiler) Blocks() uint64 { return p.blocks }

// Overruns returns how many blocks took longer than their duration.
func (p *BlockProfiler) Overruns() uint64 { return p.overruns }

// Load returns total processing time over total audio time.
func (p *BlockProfiler) Load() float64 {
	if p.audio == 0 {
		return 0
	}
	return float64(p.busy) / float64(p.audio)
}

// WorstLoad returns the highest single-block load.
func (p *BlockProfiler) WorstLoad() float64 { return p.worst }

// String summarises the profile on one line.
func (p *BlockProfiler) String() string {
	return fmt.Sprintf("blocks=%d load=%.2f%% worst=%.2f%% overruns=%d",
		p.blocks, p.Load()*100, p.worst*100, p.overruns)
}
