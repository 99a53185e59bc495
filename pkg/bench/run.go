package bench

import (
	"context"
	"fmt"
	"io"
)

// Run dispatches op to t.
func Run(ctx context.Context, t Target, op Operation) (Measurement, error) {
	switch op {
	case OpInsert:
		return t.Insert(ctx)
	case OpInsertBatch:
		return t.InsertBatch(ctx)
	case OpSelectWithIncludes:
		return t.SelectWithIncludes(ctx)
	default:
		return Measurement{}, fmt.Errorf("bench: unknown operation %q", op)
	}
}

// RunOnce performs the manual sequence on t: setup, then every operation
// once, writing each measurement to w.
func RunOnce(ctx context.Context, t Target, w io.Writer) ([]Measurement, error) {
	if err := t.Setup(ctx); err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "%s: seeded\n", t.Name())

	var ms []Measurement
	for _, op := range Operations() {
		m, err := Run(ctx, t, op)
		if err != nil {
			return ms, err
		}
		fmt.Fprintln(w, m)
		ms = append(ms, m)
	}
	return ms, nil
}
