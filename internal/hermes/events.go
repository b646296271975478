package hermes

import "time"

type AnalysisCompletedEvent struct {
	RunID         string         `json:"run_id"`
	ReferenceDate string         `json:"reference_date"`
	Tasks         int            `json:"tasks"`
	Scored        int            `json:"scored"`
	Skipped       int            `json:"skipped"`
	Tiers         map[string]int `json:"tiers"`
	TopTitle      string         `json:"top_title,omitempty"`
	TopScore      float64        `json:"top_score,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
}

type NoticeEvent struct {
	RunID     string    `json:"run_id"`
	Notice    string    `json:"notice"`
	Timestamp time.Time `json:"timestamp"`
}
