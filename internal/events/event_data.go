package events

// RefreshCompletedData is the payload for RefreshCompleted events
type RefreshCompletedData struct {
	Positions  int     `json:"positions"`
	Degraded   int     `json:"degraded"`
	TotalValue float64 `json:"total_value"`
}

// RefreshFailedData is the payload for RefreshFailed events
type RefreshFailedData struct {
	Reason string `json:"reason"`
}

// PerformanceUpdatedData is the payload for PerformanceUpdated events
type PerformanceUpdatedData struct {
	Points        int     `json:"points"`
	ChangePercent float64 `json:"change_percent"`
}
