package planner

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/kaptinlin/jsonrepair"

	"schedbot/internal/llm"
	"schedbot/internal/logging"
	"schedbot/internal/schedule"
)

// Planner converts free-text scheduling instructions into candidate calendar
// events using a language-model completion service.
//
// Planning is deliberately forgiving: any completion, extraction, or decode
// failure degrades to an empty plan so a bad model response never aborts the
// interaction. Individual events are not validated here; the booking stage
// fails malformed events one by one, so partial plan corruption does not
// discard the whole plan.
type Planner struct {
	completer llm.Completer
	logger    *slog.Logger
}

// New creates a Planner backed by the given completion client.
func New(completer llm.Completer, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{
		completer: completer,
		logger:    logging.WithService(logger, "planner"),
	}
}

// Plan implements schedule.Planner.
//
// The reference timestamp supplies both the calendar date and the UTC offset
// embedded in the prompt; the model is instructed to emit every event time
// with that same offset.
func (p *Planner) Plan(ctx context.Context, instructions string, ref time.Time) []schedule.PlannedEvent {
	raw, err := p.completer.Complete(ctx, buildPrompt(instructions, ref))
	if err != nil {
		p.logger.Warn("completion failed, returning empty plan",
			logging.Operation("plan"), logging.Err(err))
		return nil
	}

	events, err := decodeEvents(raw)
	if err != nil {
		p.logger.Warn("failed to decode planned events, returning empty plan",
			logging.Operation("plan"), logging.Err(err))
		return nil
	}

	p.logger.Debug("plan produced", logging.Operation("plan"), logging.Events(len(events)))
	return events
}

// decodeEvents parses the model output into planned events.
//
// The payload is located tolerantly (optional Markdown fencing, leading
// prose) and repaired once if plain decoding fails. A top-level value that
// is not an array counts as a total planning failure.
func decodeEvents(raw string) ([]schedule.PlannedEvent, error) {
	payload, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	var events []schedule.PlannedEvent
	if unmarshalErr := json.Unmarshal([]byte(payload), &events); unmarshalErr != nil {
		repaired, repairErr := jsonrepair.JSONRepair(payload)
		if repairErr != nil {
			return nil, unmarshalErr
		}
		if retryErr := json.Unmarshal([]byte(repaired), &events); retryErr != nil {
			return nil, unmarshalErr
		}
	}
	return events, nil
}
