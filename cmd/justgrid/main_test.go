package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	jgerrors "github.com/matzehuels/justgrid/pkg/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"interrupted", fmt.Errorf("probe: %w", context.Canceled), exitInterrupted},
		{"bad parameters", jgerrors.New(jgerrors.ErrCodeInvalidParameters, "spacing"), exitBadInput},
		{"wrapped bad frame", fmt.Errorf("layout: %w", jgerrors.New(jgerrors.ErrCodeInvalidFrame, "x")), exitBadInput},
		{"missing file", jgerrors.New(jgerrors.ErrCodeFileNotFound, "x"), exitFailure},
		{"plain", errors.New("boom"), exitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
