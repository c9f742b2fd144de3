package tracing

import (
	"context"

	"github.com/sarchlab/framesim/datarecording"
)

// LoadEvents reads events stored by a DBTracer, in recording order. It also
// returns the number of events matching params regardless of its limit.
func LoadEvents(
	ctx context.Context,
	reader datarecording.DataReader,
	params datarecording.QueryParams,
) ([]Event, int, error) {
	reader.MapTable(EventTableName, eventTableEntry{})

	if params.OrderBy == "" {
		params.OrderBy = "rowid"
	}

	rows, total, err := reader.Query(ctx, EventTableName, params)
	if err != nil {
		return nil, 0, err
	}

	events := make([]Event, 0, len(rows))
	for _, row := range rows {
		entry := row.(*eventTableEntry)

		frames, err := ParseFrames(entry.Frames)
		if err != nil {
			return nil, 0, err
		}

		events = append(events, Event{
			ID:        entry.ID,
			Domain:    entry.Domain,
			Kind:      entry.Kind,
			Rejected:  entry.Rejected,
			Requested: entry.Requested,
			Frames:    frames,
			FreeAfter: entry.FreeAfter,
			Error:     entry.Error,
		})
	}

	return events, total, nil
}
