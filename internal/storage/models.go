package storage

import "time"

// Event is one ingested log record.
type Event struct {
	ID        string
	Timestamp time.Time
	Source    string
	Message   string
}

// Block is a segment of events pivoted into columns. Timestamps are Unix
// milliseconds.
type Block struct {
	IDs        []string `json:"ids"`
	Timestamps []int64  `json:"timestamps"`
	Sources    []string `json:"sources"`
	Messages   []string `json:"messages"`
}

func NewBlock() *Block {
	return &Block{
		IDs:        make([]string, 0),
		Timestamps: make([]int64, 0),
		Sources:    make([]string, 0),
		Messages:   make([]string, 0),
	}
}

// Add appends an event to the block.
func (b *Block) Add(e Event) {
	b.IDs = append(b.IDs, e.ID)
	b.Timestamps = append(b.Timestamps, e.Timestamp.UnixMilli())
	b.Sources = append(b.Sources, e.Source)
	b.Messages = append(b.Messages, e.Message)
}

// Size returns the number of records in the block.
func (b *Block) Size() int {
	return len(b.IDs)
}

// Event reconstructs the record at row i.
func (b *Block) Event(i int) Event {
	return Event{
		ID:        b.IDs[i],
		Timestamp: time.UnixMilli(b.Timestamps[i]).UTC(),
		Source:    b.Sources[i],
		Message:   b.Messages[i],
	}
}

// Filter selects events by exact source and/or message substring. Empty
// fields match everything.
type Filter struct {
	Source   string
	Contains string
}

// ScanResult is the outcome of a full scan.
type ScanResult struct {
	Matches         []Event
	ScannedEvents   int
	ScannedSegments int
}
