package parser

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"lilt/pkg/domain"
)

var (
	planRe    = regexp.MustCompile(`^1\.\.(\d+)$`)
	resultRe  = regexp.MustCompile(`^(ok|not ok) (\d+)(?: - (.*))?$`)
	summaryRe = regexp.MustCompile(`^# (.*): passed (\d+)/(\d+)$`)
)

// TAPParser parses the TAP stream written by the tap reporter
type TAPParser struct{}

// NewTAPParser creates a new TAPParser
func NewTAPParser() *TAPParser {
	return &TAPParser{}
}

// Parse reads one TAP block per set. A block starts at its plan line and ends
// at the "# <set>: passed p/t" summary; "#" lines after a "not ok" line form
// the failure reason.
func (p *TAPParser) Parse(r io.Reader) (domain.RunResult, error) {
	var (
		run     domain.RunResult
		current *domain.SetResult
		planned int
		failed  *domain.CaseResult
	)

	finish := func(lineNo int, name string) error {
		if current == nil {
			return fmt.Errorf("line %d: summary without plan", lineNo)
		}
		if len(current.Cases) != planned {
			return fmt.Errorf("line %d: set %s planned %d cases, got %d", lineNo, name, planned, len(current.Cases))
		}
		current.Name = name
		run.Sets = append(run.Sets, *current)
		current, failed = nil, nil
		return nil
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if m := planRe.FindStringSubmatch(line); m != nil {
			if current != nil {
				if err := finish(lineNo, fmt.Sprintf("set%d", len(run.Sets)+1)); err != nil {
					return run, err
				}
			}
			planned, _ = strconv.Atoi(m[1])
			current = &domain.SetResult{}
			continue
		}

		// A failure reason may itself read "x: passed p/t"; it is only the
		// summary once every planned case is in and the counts agree.
		if m := summaryRe.FindStringSubmatch(line); m != nil && current != nil {
			passed, _ := strconv.Atoi(m[2])
			total, _ := strconv.Atoi(m[3])
			complete := len(current.Cases) == planned
			matches := passed == current.Passed && total == current.Total
			switch {
			case complete && matches:
				if err := finish(lineNo, m[1]); err != nil {
					return run, err
				}
				continue
			case failed == nil:
				return run, fmt.Errorf("line %d: summary %d/%d does not match results %d/%d", lineNo, passed, total, current.Passed, current.Total)
			}
		}

		if m := resultRe.FindStringSubmatch(line); m != nil {
			if current == nil {
				return run, fmt.Errorf("line %d: test result before plan", lineNo)
			}
			number, _ := strconv.Atoi(m[2])
			c := domain.CaseResult{Index: number - 1, Name: m[3], Passed: m[1] == "ok"}
			current.Cases = append(current.Cases, c)
			current.Total++
			failed = nil
			if c.Passed {
				current.Passed++
			} else {
				failed = &current.Cases[len(current.Cases)-1]
			}
			continue
		}

		if strings.HasPrefix(line, "#") {
			if failed != nil {
				reason := strings.TrimPrefix(strings.TrimPrefix(line, "#"), " ")
				if failed.Reason != "" {
					failed.Reason += "\n"
				}
				failed.Reason += reason
			}
			continue
		}

		return run, fmt.Errorf("line %d: unexpected TAP line %q", lineNo, line)
	}
	if err := scanner.Err(); err != nil {
		return run, fmt.Errorf("read TAP stream: %w", err)
	}

	if current != nil {
		if err := finish(lineNo, fmt.Sprintf("set%d", len(run.Sets)+1)); err != nil {
			return run, err
		}
	}
	return run, nil
}
