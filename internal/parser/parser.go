package parser

import (
	"io"

	"lilt/pkg/domain"
)

// Parser turns a captured report stream back into run results
type Parser interface {
	Parse(r io.Reader) (domain.RunResult, error)
}
