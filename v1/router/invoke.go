package router

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTimeout is wrapped by every timeout Outcome.
	ErrTimeout = errors.New("backend timed out")

	// ErrPanic is wrapped when an adapter panics.
	ErrPanic = errors.New("backend panicked")
)

type callResult struct {
	records []Record
	err     error
}

// boundedCall runs call on its own goroutine and races it against timeout.
//
// When the timer wins, the call's context is cancelled and its result is
// abandoned: the goroutine may keep running until the adapter notices the
// cancellation, and nothing waits for it. acquire, when set, gates the call
// behind a worker slot and counts against the same timeout.
func boundedCall(
	ctx context.Context,
	timeout time.Duration,
	acquire func(context.Context) (func(), error),
	call func(context.Context) ([]Record, error),
) Outcome {
	start := time.Now()
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan callResult, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- callResult{err: fmt.Errorf("%w: %v", ErrPanic, p)}
			}
		}()

		if acquire != nil {
			release, err := acquire(callCtx)
			if err != nil {
				done <- callResult{err: err}
				return
			}
			defer release()
		}

		records, err := call(callCtx)
		done <- callResult{records: records, err: err}
	}()

	var res callResult
	select {
	case res = <-done:
	case <-callCtx.Done():
		// Prefer a result that arrived at the same instant.
		select {
		case res = <-done:
		default:
			res = callResult{err: callCtx.Err()}
		}
	}

	elapsed := time.Since(start)
	switch {
	case res.err == nil:
		return Outcome{Kind: OutcomeSuccess, Records: res.records, Latency: elapsed}
	case ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded):
		return Outcome{
			Kind:    OutcomeTimeout,
			Latency: elapsed,
			Err:     fmt.Errorf("%w after %s", ErrTimeout, timeout),
		}
	default:
		return Outcome{Kind: OutcomeError, Latency: elapsed, Err: res.err}
	}
}

func structuredRecords(rows []StructuredRow) []Record {
	out := make([]Record, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}

func vectorRecords(matches []VectorMatch) []Record {
	out := make([]Record, len(matches))
	for i, m := range matches {
		out[i] = m
	}
	return out
}

// score tags records with their origin. Structured rows are exact matches
// and score 1.0.
func score(records []Record) []ScoredRecord {
	out := make([]ScoredRecord, 0, len(records))
	for _, rec := range records {
		switch r := rec.(type) {
		case StructuredRow:
			out = append(out, ScoredRecord{Source: SourceSQL, Score: 1.0, Data: r})
		case VectorMatch:
			out = append(out, ScoredRecord{Source: SourceVector, Score: r.Similarity, Data: r})
		}
	}
	return out
}
