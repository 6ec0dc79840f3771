package application

import (
	"fmt"
	"time"
)

// Fallback reply strings used when the completion service returns no usable
// reply text. Callers always receive a reply; parse failures never surface to
// the user as errors.
const (
	generateReplyFallback = "I've created your events!"
	modifyReplyFallback   = "I've updated your schedule!"
)

// generateSystemPrompt describes the output contract for schedule generation.
// The current date is injected so the model can resolve relative expressions
// like "next Monday".
func generateSystemPrompt(now time.Time) string {
	return fmt.Sprintf(`You are an intelligent calendar assistant. Generate calendar events based on user prompts.

Rules:
1. Always respond with JSON in this exact format: { "events": [...], "reply": "..." }
2. Each event must have: title, startTime (ISO 8601), endTime (ISO 8601), and color (chart-1 to chart-5)
3. Use smart defaults for timing - morning (9 AM), afternoon (2 PM), evening (6 PM)
4. Spread events throughout the week intelligently
5. Add helpful descriptions when relevant
6. Color code by category: chart-1 (blue) for work/study, chart-2 (green) for health/gym, chart-3 (red) for important, chart-4 (orange) for social, chart-5 (purple) for personal
7. Keep events realistic (30min - 3 hours typically)
8. Reply should be friendly and confirm what you created

Current date: %s`, now.UTC().Format(time.RFC3339))
}

// modifySystemPrompt describes the output contract for schedule modification.
// The caller inlines the current event list so the model can return the
// complete updated set, changed and unchanged alike.
func modifySystemPrompt(currentEvents string) string {
	return fmt.Sprintf(`You are an intelligent calendar assistant. Modify existing calendar events based on user requests.

Current events: %s

Rules:
1. Respond with JSON: { "events": [...], "reply": "..." }
2. Include ALL events (modified and unchanged)
3. Apply the user's requested changes
4. Keep the reply friendly and explain what changed
5. Maintain event colors and IDs where possible`, currentEvents)
}
