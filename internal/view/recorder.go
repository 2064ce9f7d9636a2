package view

import "sync"

// Recorder is an in-memory Sink. It backs the one-shot CLI and tests.
type Recorder struct {
	mu           sync.Mutex
	Busy         bool
	BusyHistory  []bool
	Stats        Summary
	StatsVisible bool
	Rows         []Row
	Notices      []string
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) SetBusy(busy bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Busy = busy
	r.BusyHistory = append(r.BusyHistory, busy)
}

func (r *Recorder) SetStats(s Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Stats = s
	r.StatsVisible = true
}

func (r *Recorder) SetRows(rows []Row) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Rows = append([]Row(nil), rows...)
}

func (r *Recorder) SetError(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Rows = []Row{SpanRow(RowError, message)}
}

func (r *Recorder) Notify(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Notices = append(r.Notices, message)
}
