package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sistema-educativo/alumnos-service/internal/repositories"
)

// MatriculaGenerator issues sequential matriculas of the form <org><year><NNN>
type MatriculaGenerator struct {
	orgCode string
	now     func() time.Time
}

func NewMatriculaGenerator(orgCode string, now func() time.Time) *MatriculaGenerator {
	if now == nil {
		now = time.Now
	}
	return &MatriculaGenerator{orgCode: orgCode, now: now}
}

// Prefix returns the org code followed by the current year
func (g *MatriculaGenerator) Prefix() string {
	return fmt.Sprintf("%s%d", g.orgCode, g.now().Year())
}

// Next reads the last matricula under prefix from repo and returns the following one.
// Callers serialize Next and the insert that uses its result.
func (g *MatriculaGenerator) Next(ctx context.Context, repo repositories.AlumnoRepository, prefix string) (string, error) {
	last, err := repo.GetLastMatricula(ctx, nil, prefix)
	if err != nil {
		return "", err
	}
	return NextMatricula(prefix, last), nil
}

// NextMatricula computes the successor of last under prefix. A missing or
// non-numeric suffix restarts the sequence at 001.
func NextMatricula(prefix, last string) string {
	next := 1
	if suffix, ok := strings.CutPrefix(last, prefix); ok && last != "" {
		if n, err := strconv.Atoi(suffix); err == nil && n >= 0 {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s%03d", prefix, next)
}
