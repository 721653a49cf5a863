package planner

import (
	"fmt"
	"time"
)

// promptTemplate fixes the output contract with the model: a JSON array of
// 1-7 events whose timestamps all carry the caller's UTC offset.
const promptTemplate = `You are a scheduling planner. Today is %s. UTC offset is %s.
Based on the user request produce between 1 and 7 events as a JSON array.
Fields per event: summary, start_iso, end_iso, description.
All times must include timezone offset %s.
If duration is missing, default to 30 minutes.
User request: %s
Return ONLY a valid JSON array.`

// buildPrompt renders the planning prompt for one instruction.
func buildPrompt(instructions string, ref time.Time) string {
	today := ref.Format("2006-01-02")
	offset := ref.Format("-0700")
	return fmt.Sprintf(promptTemplate, today, offset, offset, instructions)
}
