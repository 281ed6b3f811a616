package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// FileProvider serves events from a JSON file that an external exporter
// keeps up to date. The file is re-read on every query so edits are picked
// up without a restart.
type FileProvider struct {
	path string
}

type fileSchema struct {
	Calendars []struct {
		ID     string  `json:"id"`
		Events []Event `json:"events"`
	} `json:"calendars"`
}

func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

func (p *FileProvider) load() (*fileSchema, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read calendar file: %w", err)
	}
	var schema fileSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("failed to parse calendar file: %w", err)
	}
	return &schema, nil
}

func (p *FileProvider) Calendars(_ context.Context) ([]string, error) {
	schema, err := p.load()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(schema.Calendars))
	for _, c := range schema.Calendars {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

func (p *FileProvider) EventsOverlapping(_ context.Context, start, end time.Time, calendarID string) ([]Event, error) {
	schema, err := p.load()
	if err != nil {
		return nil, err
	}
	var out []Event
	for _, c := range schema.Calendars {
		if calendarID != "" && c.ID != calendarID {
			continue
		}
		for _, e := range c.Events {
			if e.Start.Before(end) && e.End.After(start) {
				out = append(out, e)
			}
		}
	}
	return out, nil
}
