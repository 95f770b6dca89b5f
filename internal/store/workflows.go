package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bhagyaborus/socialsphere/internal/model"
)

func (s *store) CreateWorkflow(workflow *model.Workflow) error {
	res, err := s.db.NamedExec(`insert into workflows (ID, Name, Status, TotalRuns, SuccessRate)
		values(:ID, :Name, :Status, :TotalRuns, :SuccessRate)`, workflow)
	if err != nil {
		return fmt.Errorf("inserting workflow: %w", err)
	}
	if rows, err := res.RowsAffected(); rows != 1 {
		return fmt.Errorf("expected 1 row to be affected, got %d", rows)
	} else if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	return nil
}

func (s *store) GetWorkflows() ([]model.Workflow, error) {
	workflows := []model.Workflow{}
	err := s.db.Select(&workflows, `select * from workflows order by Name`)
	if err != nil {
		return nil, fmt.Errorf("fetching workflows: %w", err)
	}
	return workflows, nil
}

// EnsureWorkflow seeds the named workflow if it does not exist yet and
// returns its id.
func (s *store) EnsureWorkflow(name string) (string, error) {
	var id string
	err := s.db.Get(&id, `select ID from workflows where Name = ?`, name)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("fetching workflow: %w", err)
	}

	workflow := &model.Workflow{
		ID:     model.CreateID(),
		Name:   name,
		Status: model.WorkflowActive,
	}
	if err := s.CreateWorkflow(workflow); err != nil {
		return "", err
	}
	return workflow.ID, nil
}

// RecordWorkflowRun bumps the run counters; success rate is a running
// percentage over all recorded runs.
func (s *store) RecordWorkflowRun(id string, success bool, ranAt time.Time) error {
	succeeded := 0
	if success {
		succeeded = 100
	}
	_, err := s.db.Exec(`update workflows set
		LastRun = ?,
		TotalRuns = TotalRuns + 1,
		SuccessRate = (SuccessRate * TotalRuns + ?) / (TotalRuns + 1)
		where ID = ?`, ranAt, succeeded, id)
	if err != nil {
		return fmt.Errorf("recording workflow run: %w", err)
	}
	return nil
}
