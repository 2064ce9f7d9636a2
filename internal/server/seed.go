package server

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/pders01/chronos/internal/storage"
)

//go:embed sample_events.toml
var sampleEventsTOML []byte

type seedEvent struct {
	ID      string    `toml:"id"`
	TS      time.Time `toml:"ts"`
	Source  string    `toml:"source"`
	Message string    `toml:"message"`
}

type seedSegment struct {
	Events []seedEvent `toml:"events"`
}

type seedFile struct {
	Segments []seedSegment `toml:"segments"`
}

// ParseSeed decodes a TOML seed document into segments of events.
func ParseSeed(data []byte) ([][]storage.Event, error) {
	var doc seedFile
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing seed: %w", err)
	}

	segments := make([][]storage.Event, 0, len(doc.Segments))
	for i, seg := range doc.Segments {
		if len(seg.Events) == 0 {
			continue
		}
		events := make([]storage.Event, 0, len(seg.Events))
		for j, e := range seg.Events {
			if e.ID == "" || e.TS.IsZero() || e.Message == "" {
				return nil, fmt.Errorf("segment %d event %d: id, ts and message are required", i, j)
			}
			events = append(events, storage.Event{
				ID:        e.ID,
				Timestamp: e.TS.UTC(),
				Source:    e.Source,
				Message:   e.Message,
			})
		}
		segments = append(segments, events)
	}
	return segments, nil
}

// Seed appends the embedded sample events, or the events in path when it
// is non-empty. It returns the number of events stored.
func Seed(store *storage.Store, path string) (int, error) {
	data := sampleEventsTOML
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return 0, fmt.Errorf("reading seed file: %w", err)
		}
	}

	segments, err := ParseSeed(data)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, events := range segments {
		if _, err := store.AppendSegment(events); err != nil {
			return total, err
		}
		total += len(events)
	}
	return total, nil
}
