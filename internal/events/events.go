package events

// Quota decision event types.
const (
	EventQuotaConsumed  = "quota.consumed"
	EventQuotaExhausted = "quota.exhausted"
)

// DecisionPayload captures the minimal data needed to audit a quota
// decision.
type DecisionPayload struct {
	Identity string `json:"identity"`
	Day      string `json:"day"`
	Count    int    `json:"count"`
	Limit    int    `json:"limit"`
	Accepted bool   `json:"accepted"`
}

// ToMap converts a payload into an outbox-friendly map.
func (p DecisionPayload) ToMap() map[string]any {
	return map[string]any{
		"identity": p.Identity,
		"day":      p.Day,
		"count":    p.Count,
		"limit":    p.Limit,
		"accepted": p.Accepted,
	}
}
