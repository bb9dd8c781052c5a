package model

import "time"

// Stage identifies a step of a check run.
type Stage string

const (
	StagePartition Stage = "partition"
	StageSubmit    Stage = "submit"
	StageFetch     Stage = "fetch"
	StageAnalyze   Stage = "analyze"
	StageDone      Stage = "done"
	StageFailed    Stage = "failed"
)

// StageResult records how long a stage took and whether it failed.
type StageResult struct {
	Stage    Stage  `json:"stage"`
	Duration int64  `json:"duration_ms"`
	Error    string `json:"error,omitempty"`
}

// Run describes one execution of the check pipeline.
type Run struct {
	ID        string        `json:"id"`
	Suspect   string        `json:"suspect"`
	Stage     Stage         `json:"stage"`
	Stages    []StageResult `json:"stages"`
	Summary   *Summary      `json:"summary,omitempty"`
	StartedAt time.Time     `json:"started_at"`
}
