package scheduler

import "go.trai.ch/vantage/internal/core/domain"

// StateOf exposes the last state reached by task for testing.
func (s *Scheduler) StateOf(task domain.TaskRef) (State, bool) {
	return s.state(task)
}
