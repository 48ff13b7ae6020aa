package server

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/athlog/athlog-mcp/internal/progress"
	"github.com/athlog/athlog-mcp/internal/store"
)

func sampleProgressResult() store.ProgressResult {
	start := time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC)
	return store.ProgressResult{
		Plan:          progress.Plan{RangeDays: 90, BucketCount: 6, BucketSizeDays: 15},
		Resolved:      []string{"bench press"},
		CanonicalKind: progress.KindExercise,
		Series: progress.Series{
			{Index: 0, Start: start, End: start.AddDate(0, 0, 14), Value: 100, Count: 3},
			{Index: 2, Start: start.AddDate(0, 0, 30), End: start.AddDate(0, 0, 44), Value: 120, Count: 1},
		},
		Scale: &progress.Scale{
			ActualMin:  100,
			ActualMax:  120,
			DisplayMin: 80,
			DisplayMax: 144,
			Ticks:      [6]float64{80, 92.8, 105.6, 118.4, 131.2, 144},
		},
	}
}

func TestGetProgressSuccess(t *testing.T) {
	t.Parallel()

	mock := &mockStore{progressResult: sampleProgressResult()}
	srv := newTestServer(mock)

	input := GetProgressInput{
		Mode:      "lifting",
		Query:     "bench",
		Metric:    "weight",
		RangeDays: 90,
	}
	_, output, err := srv.getProgress(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output.RangeDays != 90 {
		t.Errorf("expected range_days 90, got %d", output.RangeDays)
	}
	if output.NoMatch {
		t.Error("expected no_match false")
	}
	if len(output.Resolved) != 1 || output.Resolved[0] != "bench press" {
		t.Errorf("unexpected resolved names: %v", output.Resolved)
	}
	if output.CanonicalKind != "exercise" {
		t.Errorf("expected canonical kind exercise, got %q", output.CanonicalKind)
	}

	if len(output.Series) != 2 {
		t.Fatalf("expected 2 series points, got %d", len(output.Series))
	}
	first := output.Series[0]
	if first.Index != 0 || first.Value != 100 || first.Count != 3 {
		t.Errorf("unexpected first point: %+v", first)
	}
	if first.Start != "2024-03-18" {
		t.Errorf("expected start 2024-03-18, got %q", first.Start)
	}
	if first.End != "2024-04-01" {
		t.Errorf("expected end 2024-04-01, got %q", first.End)
	}

	if output.Scale == nil {
		t.Fatal("expected scale")
	}
	if output.Scale.DisplayMin != 80 || output.Scale.DisplayMax != 144 {
		t.Errorf("unexpected scale bounds: %+v", output.Scale)
	}
	if output.Scale.Ticks[5] != 144 {
		t.Errorf("expected last tick 144, got %v", output.Scale.Ticks[5])
	}

	// The mock should have seen the translated query
	q := mock.lastProgressQuery
	if q.UserID != "default" || q.Mode != "lifting" || q.Query != "bench" {
		t.Errorf("unexpected query passed to store: %+v", q)
	}
	if q.Metric != progress.MetricWeight {
		t.Errorf("expected metric weight, got %q", q.Metric)
	}
	if q.Fill != progress.FillSparse {
		t.Errorf("expected sparse fill by default, got %v", q.Fill)
	}
}

func TestGetProgressDefaults(t *testing.T) {
	t.Parallel()

	mock := &mockStore{progressResult: store.ProgressResult{
		Plan: progress.Plan{RangeDays: 7, BucketCount: 7, BucketSizeDays: 1},
	}}
	srv := newTestServer(mock)

	input := GetProgressInput{Mode: "lifting", Query: "bench", Metric: "reps"}
	_, _, err := srv.getProgress(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mock.lastProgressQuery.RangeDays != 7 {
		t.Errorf("expected default range 7, got %d", mock.lastProgressQuery.RangeDays)
	}
}

func TestGetProgressZeroFill(t *testing.T) {
	t.Parallel()

	mock := &mockStore{progressResult: store.ProgressResult{
		Plan: progress.Plan{RangeDays: 7, BucketCount: 7, BucketSizeDays: 1},
	}}
	srv := newTestServer(mock)

	input := GetProgressInput{Mode: "lifting", Query: "bench", Metric: "reps", Fill: "zero"}
	if _, _, err := srv.getProgress(context.Background(), nil, input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mock.lastProgressQuery.Fill != progress.FillZero {
		t.Errorf("expected zero fill, got %v", mock.lastProgressQuery.Fill)
	}
}

func TestGetProgressValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input GetProgressInput
	}{
		{
			name:  "missing mode",
			input: GetProgressInput{Query: "bench", Metric: "reps"},
		},
		{
			name:  "missing query",
			input: GetProgressInput{Mode: "lifting", Metric: "reps"},
		},
		{
			name:  "unknown metric",
			input: GetProgressInput{Mode: "lifting", Query: "bench", Metric: "bogus"},
		},
		{
			name:  "unknown fill",
			input: GetProgressInput{Mode: "lifting", Query: "bench", Metric: "reps", Fill: "interpolate"},
		},
	}

	srv := newTestServer(&mockStore{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := srv.getProgress(context.Background(), nil, tt.input)
			toolError(t, err, ErrInvalidInput)
		})
	}
}

func TestGetProgressRangeFallback(t *testing.T) {
	t.Parallel()

	mock := &mockStore{progressResult: store.ProgressResult{
		Plan:          progress.Plan{RangeDays: 7, BucketCount: 7, BucketSizeDays: 1},
		RangeFallback: true,
	}}
	srv := newTestServer(mock)

	input := GetProgressInput{Mode: "lifting", Query: "bench", Metric: "reps", RangeDays: 45}
	_, output, err := srv.getProgress(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !output.RangeFallback {
		t.Error("expected range_fallback true")
	}
	if output.RangeDays != 7 {
		t.Errorf("expected effective range 7, got %d", output.RangeDays)
	}
}

func TestGetProgressNoMatch(t *testing.T) {
	t.Parallel()

	mock := &mockStore{progressResult: store.ProgressResult{
		Plan:    progress.Plan{RangeDays: 7, BucketCount: 7, BucketSizeDays: 1},
		NoMatch: true,
	}}
	srv := newTestServer(mock)

	input := GetProgressInput{Mode: "lifting", Query: "zzz", Metric: "reps"}
	_, output, err := srv.getProgress(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("no match should not be an error: %v", err)
	}

	if !output.NoMatch {
		t.Error("expected no_match true")
	}
	if len(output.Series) != 0 {
		t.Errorf("expected empty series, got %d points", len(output.Series))
	}
	if output.Scale != nil {
		t.Error("expected nil scale for empty series")
	}
}

func TestGetProgressSuperseded(t *testing.T) {
	t.Parallel()

	mock := &mockStore{failWith: fmt.Errorf("aggregation pass: %w", progress.ErrSuperseded)}
	srv := newTestServer(mock)

	input := GetProgressInput{Mode: "lifting", Query: "bench", Metric: "reps"}
	_, _, err := srv.getProgress(context.Background(), nil, input)
	toolError(t, err, ErrSupersededError)
}

func TestGetProgressStoreError(t *testing.T) {
	t.Parallel()

	mock := &mockStore{failWith: fmt.Errorf("sqlite: disk I/O error")}
	srv := newTestServer(mock)

	input := GetProgressInput{Mode: "lifting", Query: "bench", Metric: "reps"}
	_, _, err := srv.getProgress(context.Background(), nil, input)
	toolError(t, err, ErrDatabaseError)
}
