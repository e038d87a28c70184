package common

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumine/internal/errors"
	"resumine/internal/results"
	"resumine/internal/types"
)

func TestReadDocument(t *testing.T) {
	dir := t.TempDir()
	job := filepath.Join(dir, "job.txt")
	blank := filepath.Join(dir, "blank.txt")
	big := filepath.Join(dir, "big.txt")
	require.NoError(t, os.WriteFile(job, []byte("Senior Go engineer\n"), 0600))
	require.NoError(t, os.WriteFile(blank, []byte(" \n\t"), 0600))
	require.NoError(t, os.WriteFile(big, []byte(strings.Repeat("x", 64)), 0600))

	fp := NewFileProcessor(errors.NewNopLogger(), 32)

	tests := []struct {
		name     string
		path     string
		want     string
		wantCode string
	}{
		{name: "reads content", path: job, want: "Senior Go engineer\n"},
		{name: "missing file", path: filepath.Join(dir, "nope.txt"), wantCode: errors.ErrCodeInvalidRequest},
		{name: "blank file", path: blank, wantCode: errors.ErrCodeEmptyContent},
		{name: "too large", path: big, wantCode: errors.ErrCodeInvalidRequest},
		{name: "directory", path: dir, wantCode: errors.ErrCodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fp.ReadDocument(tt.path)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, tt.wantCode), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteFileCreatesParents(t *testing.T) {
	target := filepath.Join(t.TempDir(), "reports", "out", "analysis.md")

	fp := NewFileProcessor(errors.NewNopLogger(), 0)
	require.NoError(t, fp.WriteFile(target, "# Report\n"))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "# Report\n", string(data))
}

func TestHandleOutput(t *testing.T) {
	data := types.ExtractedData{CandidateName: "Jane Smith"}

	t.Run("stdout", func(t *testing.T) {
		var out bytes.Buffer
		handler := NewOutputHandler(errors.NewNopLogger(), &out)
		require.NoError(t, handler.HandleOutput(data, CommandConfig{OutputFormat: "text"}))
		assert.Contains(t, out.String(), "Name: Jane Smith")
	})

	t.Run("file", func(t *testing.T) {
		var out bytes.Buffer
		target := filepath.Join(t.TempDir(), "profile.json")
		handler := NewOutputHandler(errors.NewNopLogger(), &out)
		require.NoError(t, handler.HandleOutput(data, CommandConfig{OutputFile: target, OutputFormat: "json"}))
		assert.Empty(t, out.String())

		written, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Contains(t, string(written), `"candidate_name": "Jane Smith"`)
	})

	t.Run("unknown format", func(t *testing.T) {
		handler := NewOutputHandler(errors.NewNopLogger(), &bytes.Buffer{})
		err := handler.HandleOutput(data, CommandConfig{OutputFormat: "yaml"})
		assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidFormat))
	})
}

func TestRunCommand(t *testing.T) {
	ctx := context.Background()
	logger := errors.NewNopLogger()
	op := func(context.Context) (types.ExtractedData, error) {
		return types.ExtractedData{CandidateName: "Jane Smith"}, nil
	}

	t.Run("writes and saves", func(t *testing.T) {
		store := results.NewFileStore(t.TempDir(), logger)
		var out, notice bytes.Buffer
		runner := Runner{Logger: logger, Store: store, Out: &out, Notice: &notice}

		got, err := RunCommand(ctx, runner, CommandConfig{OutputFormat: "json", Save: true}, types.KindResumeExtraction, op)
		require.NoError(t, err)
		assert.Equal(t, "Jane Smith", got.CandidateName)
		assert.Contains(t, out.String(), "Jane Smith")
		assert.Contains(t, notice.String(), "Results saved to: ")

		saved, err := store.List(ctx, 0)
		require.NoError(t, err)
		require.Len(t, saved, 1)
		assert.Equal(t, types.KindResumeExtraction, saved[0].Kind)
	})

	t.Run("save without store", func(t *testing.T) {
		runner := Runner{Logger: logger, Out: &bytes.Buffer{}}
		_, err := RunCommand(ctx, runner, CommandConfig{OutputFormat: "json", Save: true}, types.KindResumeExtraction, op)
		assert.True(t, errors.HasCode(err, errors.ErrCodeStoreFailed))
	})

	t.Run("operation error skips output", func(t *testing.T) {
		var out bytes.Buffer
		boom := stderrors.New("boom")
		runner := Runner{Logger: logger, Out: &out}
		_, err := RunCommand(ctx, runner, CommandConfig{OutputFormat: "json"}, types.KindResumeExtraction,
			func(context.Context) (types.ExtractedData, error) { return types.ExtractedData{}, boom })
		assert.ErrorIs(t, err, boom)
		assert.Empty(t, out.String())
	})
}
