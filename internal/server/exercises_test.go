package server

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/athlog/athlog-mcp/internal/progress"
	"github.com/athlog/athlog-mcp/internal/store"
)

func TestSearchExercisesSuccess(t *testing.T) {
	t.Parallel()

	mock := &mockStore{searchResult: store.SearchResult{
		Matches: []progress.Match{
			{CorpusEntry: progress.CorpusEntry{Name: "bench press", Kind: progress.KindExercise}, Score: 0.8},
			{CorpusEntry: progress.CorpusEntry{Name: "incline bench press", Kind: progress.KindExercise}, Score: 0.5},
		},
		CanonicalKind: progress.KindExercise,
	}}
	srv := newTestServer(mock)

	input := SearchExercisesInput{Mode: "lifting", Query: "bench"}
	_, output, err := srv.searchExercises(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output.Query != "bench" {
		t.Errorf("expected query echoed back, got %q", output.Query)
	}
	if output.NoMatch {
		t.Error("expected no_match false")
	}
	if output.CanonicalKind != "exercise" {
		t.Errorf("expected canonical kind exercise, got %q", output.CanonicalKind)
	}
	if len(output.Matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(output.Matches))
	}
	if output.Matches[0].Name != "bench press" || output.Matches[0].Score != 0.8 {
		t.Errorf("unexpected first match: %+v", output.Matches[0])
	}
}

func TestSearchExercisesNoMatch(t *testing.T) {
	t.Parallel()

	mock := &mockStore{searchResult: store.SearchResult{NoMatch: true}}
	srv := newTestServer(mock)

	input := SearchExercisesInput{Mode: "lifting", Query: "zzz"}
	_, output, err := srv.searchExercises(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("no match should not be an error: %v", err)
	}

	if !output.NoMatch {
		t.Error("expected no_match true")
	}
	if len(output.Matches) != 0 {
		t.Errorf("expected no matches, got %d", len(output.Matches))
	}
}

func TestSearchExercisesValidation(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&mockStore{})

	_, _, err := srv.searchExercises(context.Background(), nil, SearchExercisesInput{Query: "bench"})
	toolError(t, err, ErrInvalidInput)

	_, _, err = srv.searchExercises(context.Background(), nil, SearchExercisesInput{Mode: "lifting"})
	toolError(t, err, ErrInvalidInput)
}

func TestLogPerformanceSuccess(t *testing.T) {
	t.Parallel()

	mock := &mockStore{logResult: store.LogResult{RecordID: "rec-1", SessionID: "sess-1"}}
	srv := newTestServer(mock)

	reps := 8.0
	weight := 185.0
	input := LogPerformanceInput{
		Mode:        "lifting",
		Exercise:    "bench press",
		PerformedAt: "2024-06-14",
		Reps:        &reps,
		Weight:      &weight,
		Completed:   true,
	}
	_, output, err := srv.logPerformance(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output.RecordID != "rec-1" {
		t.Errorf("expected record id rec-1, got %q", output.RecordID)
	}
	if output.SessionID != "sess-1" {
		t.Errorf("expected session id sess-1, got %q", output.SessionID)
	}

	p := mock.lastLogParams
	if p.UserID != "default" {
		t.Errorf("expected default user, got %q", p.UserID)
	}
	if p.ExerciseKind != progress.KindExercise {
		t.Errorf("expected default exercise kind, got %q", p.ExerciseKind)
	}
	if p.ActivityKind != "workout" {
		t.Errorf("expected default activity kind workout, got %q", p.ActivityKind)
	}
	want := time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)
	if !p.PerformedAt.Equal(want) {
		t.Errorf("expected performed_at %v, got %v", want, p.PerformedAt)
	}
	if p.Reps == nil || *p.Reps != 8 {
		t.Errorf("unexpected reps: %v", p.Reps)
	}
	if !p.Completed {
		t.Error("expected completed true")
	}
}

func TestLogPerformanceDefaultDate(t *testing.T) {
	t.Parallel()

	mock := &mockStore{logResult: store.LogResult{RecordID: "rec-1", SessionID: "sess-1"}}
	srv := newTestServer(mock)

	input := LogPerformanceInput{Mode: "basketball", Exercise: "free throws", ActivityKind: "practice"}
	if _, _, err := srv.logPerformance(context.Background(), nil, input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// An empty date is passed through as zero; the service fills in today
	if !mock.lastLogParams.PerformedAt.IsZero() {
		t.Errorf("expected zero performed_at, got %v", mock.lastLogParams.PerformedAt)
	}
	if mock.lastLogParams.ActivityKind != "practice" {
		t.Errorf("expected activity kind practice, got %q", mock.lastLogParams.ActivityKind)
	}
}

func TestLogPerformanceValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input LogPerformanceInput
	}{
		{
			name:  "missing mode",
			input: LogPerformanceInput{Exercise: "bench press"},
		},
		{
			name:  "missing exercise",
			input: LogPerformanceInput{Mode: "lifting"},
		},
		{
			name:  "unknown activity kind",
			input: LogPerformanceInput{Mode: "lifting", Exercise: "bench press", ActivityKind: "meditation"},
		},
		{
			name:  "bad date",
			input: LogPerformanceInput{Mode: "lifting", Exercise: "bench press", PerformedAt: "June 14th"},
		},
	}

	srv := newTestServer(&mockStore{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := srv.logPerformance(context.Background(), nil, tt.input)
			toolError(t, err, ErrInvalidInput)
		})
	}
}

func TestLogPerformanceStoreError(t *testing.T) {
	t.Parallel()

	mock := &mockStore{failWith: fmt.Errorf("sqlite: constraint violation")}
	srv := newTestServer(mock)

	input := LogPerformanceInput{Mode: "lifting", Exercise: "bench press"}
	_, _, err := srv.logPerformance(context.Background(), nil, input)
	toolError(t, err, ErrDatabaseError)
}
