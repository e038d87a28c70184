package common

import (
	"context"
	"fmt"
	"io"

	"resumine/internal/errors"
	"resumine/internal/results"
)

// Operation produces the result of one command
type Operation[Output any] func(context.Context) (Output, error)

// Runner executes commands and routes their results to output and storage
type Runner struct {
	Logger *errors.Logger
	// Store is required only when a command is run with Save set
	Store  results.Store
	Out    io.Writer
	Notice io.Writer
}

// RunCommand runs op, writes its formatted result and saves it under kind
// when cmdConfig.Save is set. The result is returned so callers can inspect it.
func RunCommand[Output any](ctx context.Context, r Runner, cmdConfig CommandConfig, kind string, op Operation[Output]) (Output, error) {
	result, err := op(ctx)
	if err != nil {
		return result, err
	}

	if err := NewOutputHandler(r.Logger, r.Out).HandleOutput(result, cmdConfig); err != nil {
		return result, err
	}

	if !cmdConfig.Save {
		return result, nil
	}
	if r.Store == nil {
		return result, errors.NewInternalError(errors.ErrCodeStoreFailed, "no result store configured", nil)
	}

	saved, err := r.Store.Save(ctx, kind, result)
	if err != nil {
		return result, err
	}
	r.Logger.Info("Result saved", "name", saved.Name, "kind", kind, "location", saved.Location)
	if r.Notice != nil {
		fmt.Fprintf(r.Notice, "Results saved to: %s\n", saved.Location)
	}
	return result, nil
}
