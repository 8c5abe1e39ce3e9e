package app

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"standalone/internal/core/errors"
	"standalone/internal/core/ports"
	"standalone/internal/engine/parser"
	"standalone/internal/shared/observability"
)

type extractionService struct {
	app *App
}

var _ ports.ExtractionService = (*extractionService)(nil)

func NewExtractionService(app *App) ports.ExtractionService {
	return &extractionService{app: app}
}

func (s *extractionService) Unwrap() *App {
	return s.app
}

func (a *App) ExtractionService() ports.ExtractionService {
	return NewExtractionService(a)
}

func (s *extractionService) Extract(ctx context.Context, req ports.ExtractRequest) (ports.ExtractResult, error) {
	ctx, span := observability.Tracer.Start(ctx, "extractionService.Extract", trace.WithAttributes())
	defer span.End()

	if err := ctx.Err(); err != nil {
		return ports.ExtractResult{}, err
	}
	if s.app == nil {
		return ports.ExtractResult{}, fmt.Errorf("app is required")
	}

	res, err := s.app.Extract(ctx, req.Target)
	if err != nil {
		return ports.ExtractResult{}, errors.AddContext(err, errors.CtxOperation, "extract")
	}
	return res, nil
}

func (s *extractionService) ListTargets(ctx context.Context) ([]parser.FunctionDef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.app == nil {
		return nil, fmt.Errorf("app is required")
	}
	return s.app.ListTargets(), nil
}

func (s *extractionService) Reload(ctx context.Context, req ports.ReloadRequest) (ports.ReloadResult, error) {
	ctx, span := observability.Tracer.Start(ctx, "extractionService.Reload", trace.WithAttributes())
	defer span.End()

	if err := ctx.Err(); err != nil {
		return ports.ReloadResult{}, err
	}
	if s.app == nil {
		return ports.ReloadResult{}, fmt.Errorf("app is required")
	}

	units, err := s.app.Reload(req.Paths)
	if err != nil {
		return ports.ReloadResult{}, errors.AddContext(err, errors.CtxOperation, "reload")
	}
	return ports.ReloadResult{Units: units}, nil
}

func (s *extractionService) WriteOutputs(ctx context.Context, req ports.WriteOutputsRequest) (ports.WriteOutputsResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.WriteOutputsResult{}, err
	}
	if s.app == nil {
		return ports.WriteOutputsResult{}, fmt.Errorf("app is required")
	}

	written, err := s.app.WriteOutputs(req.Extraction)
	if err != nil {
		return ports.WriteOutputsResult{Written: written}, errors.AddContext(err, errors.CtxOperation, "write_outputs")
	}
	return ports.WriteOutputsResult{Written: written}, nil
}
