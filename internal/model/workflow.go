package model

import "time"

type WorkflowStatus string

const (
	WorkflowActive WorkflowStatus = "active"
	WorkflowPaused WorkflowStatus = "paused"
	WorkflowError  WorkflowStatus = "error"
)

type Workflow struct {
	ID          string         `db:"ID" json:"id"`
	Name        string         `db:"Name" json:"name"`
	Status      WorkflowStatus `db:"Status" json:"status"`
	LastRun     *time.Time     `db:"LastRun" json:"lastRun,omitempty"`
	TotalRuns   int            `db:"TotalRuns" json:"totalRuns"`
	SuccessRate int            `db:"SuccessRate" json:"successRate"`
}
