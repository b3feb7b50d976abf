package ui

import "lilt/pkg/domain"

// Viewer displays stored results in an interactive TUI
type Viewer interface {
	View(results *domain.TestResultsOutput) error
}
