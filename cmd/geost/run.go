package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/gitrdm/gokangeost/pkg/geost"
)

const (
	statusConsistent = "consistent"
	statusFixed      = "fixed"
	statusInfeasible = "infeasible"
	statusError      = "error"
)

// result is the JSON report for one model file.
type result struct {
	Model   string              `json:"model"`
	Status  string              `json:"status"`
	Error   string              `json:"error,omitempty"`
	Objects []geost.ObjectState `json:"objects,omitempty"`
	Stats   *statsReport        `json:"stats,omitempty"`
}

type statsReport struct {
	GetFRCalls    int     `json:"getFRCalls"`
	Prunes        int     `json:"prunes"`
	Jumps         int     `json:"jumps"`
	MaxJumps      int     `json:"maxJumps"`
	MeanJumps     float64 `json:"meanJumps"`
	FixCount      int     `json:"fixCount"`
	MemoHits      int     `json:"memoHits"`
	ShapesRemoved int     `json:"shapesRemoved"`
	ElapsedMicros int64   `json:"elapsedMicros"`
}

func newStatsReport(s *geost.KernelStats) *statsReport {
	return &statsReport{
		GetFRCalls:    s.GetFRCalls,
		Prunes:        s.Prunes,
		Jumps:         s.Jumps,
		MaxJumps:      s.MaxJumps,
		MeanJumps:     s.MeanJumps(),
		FixCount:      s.FixCount,
		MemoHits:      s.MemoHits,
		ShapesRemoved: s.ShapesRemoved,
		ElapsedMicros: s.PropagationTime.Microseconds(),
	}
}

// solveFile loads the model at path, propagates it and, when fix is set,
// instantiates every object with the file's control vectors. Infeasibility
// is a status, not an error; errors are reserved for unreadable models,
// invalid configurations and cancellation.
func solveFile(ctx context.Context, path string, cfg geost.Config, fix bool) (result, error) {
	res := result{Model: path}
	m, cvs, err := geost.LoadModelFile(path)
	if err != nil {
		return res, err
	}
	store := geost.NewStore(m)
	c, err := geost.NewConstraint(m, store, cfg)
	if err != nil {
		return res, err
	}
	err = c.Propagate(ctx)
	if err == nil && fix {
		err = c.FixAll(ctx, cvs)
	}
	if statsFlag {
		res.Stats = newStatsReport(c.Stats())
	}
	switch {
	case errors.Is(err, geost.ErrInfeasible):
		res.Status = statusInfeasible
		return res, nil
	case err != nil:
		return res, err
	}
	res.Status = statusConsistent
	if fix {
		res.Status = statusFixed
	}
	res.Objects = geost.Snapshot(m, store)
	return res, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
