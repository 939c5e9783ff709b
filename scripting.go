// Package scripting evaluates script resources with a pluggable set of engines.
//
// A ResourceEvaluator names a resource and, optionally, an engine. On every evaluation it
// resolves the engine (by name, or by the resource's suffix), reads the resource through a
// loader and hands the source and a bindings context to the engine:
//
//	e, err := scripting.NewResourceEvaluator("", "scripts/hello.js")
//	if err != nil {
//		return err
//	}
//	result, err := e.Eval(ctx, bindings.NewContext(bindings.WithVars(vars)))
//
// Failures are typed: *engine.UnsupportedEngineError, *engine.ScriptLoadError and
// *engine.ScriptExecutionError.
package scripting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/robbyt/go-scripting/engine"
	"github.com/robbyt/go-scripting/execution/bindings"
	"github.com/robbyt/go-scripting/execution/script"
	"github.com/robbyt/go-scripting/internal/helpers"
)

var (
	ErrEmptyResourceName = errors.New("resource name is empty")
	ErrEmptyEngineName   = errors.New("engine name is empty")
)

// Evaluator runs a script against a bindings context and returns the value it produced.
type Evaluator interface {
	Eval(ctx context.Context, sctx *bindings.Context) (any, error)
}

var (
	_ Evaluator = (*ResourceEvaluator)(nil)
	_ Evaluator = (*StringEvaluator)(nil)
)

// ResourceEvaluator evaluates one named script resource. It keeps no state between evaluations,
// so the resource is read again on every call.
type ResourceEvaluator struct {
	engineName   string
	resourceName string
	cfg          *config
}

// NewResourceEvaluator creates an evaluator for resourceName. An empty engineName selects the
// engine from the resource suffix.
func NewResourceEvaluator(engineName, resourceName string, opts ...Option) (*ResourceEvaluator, error) {
	if resourceName == "" {
		return nil, ErrEmptyResourceName
	}
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &ResourceEvaluator{
		engineName:   engineName,
		resourceName: resourceName,
		cfg:          cfg,
	}, nil
}

func (e *ResourceEvaluator) String() string {
	return fmt.Sprintf("scripting.ResourceEvaluator{Engine: %q, Resource: %s, Loader: %s}",
		e.engineName, e.resourceName, e.cfg.loader)
}

// Eval resolves the engine, loads the resource and evaluates it. The resource stream is closed
// before Eval returns.
func (e *ResourceEvaluator) Eval(ctx context.Context, sctx *bindings.Context) (any, error) {
	logger := e.cfg.logger.With("evalID", newEvalID(), "resource", e.resourceName)

	eng, err := engine.Resolve(e.engineName, e.resourceName, e.cfg.registry)
	if err != nil {
		logger.Debug("engine resolution failed", "engineName", e.engineName, "error", err)
		return nil, err
	}
	meta := eng.Metadata()
	logger = logger.With("engine", meta.Name)

	body, err := e.load(ctx, meta.Binary)
	if err != nil {
		logger.Debug("script load failed", "error", err)
		return nil, err
	}

	src := engine.Source{Name: e.resourceName, Body: body}
	return evaluate(ctx, logger, eng, src, sctx)
}

// load reads the whole resource. Text is decoded unless the engine takes raw bytes.
func (e *ResourceEvaluator) load(ctx context.Context, binary bool) ([]byte, error) {
	rc, err := e.cfg.loader.Open(ctx, e.resourceName)
	if err != nil {
		return nil, &engine.ScriptLoadError{Resource: e.resourceName, Err: err}
	}
	defer func() {
		if err := rc.Close(); err != nil {
			e.cfg.logger.Warn("failed to close script resource", "resource", e.resourceName, "error", err)
		}
	}()

	read := script.ReadText
	if binary {
		read = script.ReadBinary
	}
	body, err := read(rc)
	if err != nil {
		return nil, &engine.ScriptLoadError{Resource: e.resourceName, Err: err}
	}
	return body, nil
}

// StringEvaluator evaluates inline script text with an explicitly named engine.
type StringEvaluator struct {
	engineName string
	name       string
	body       []byte
	cfg        *config
}

// NewStringEvaluator creates an evaluator for the script text. Only WithRegistry and the logging
// options apply; there is no resource to load.
func NewStringEvaluator(engineName, scriptText string, opts ...Option) (*StringEvaluator, error) {
	if engineName == "" {
		return nil, ErrEmptyEngineName
	}
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	body := []byte(scriptText)
	return &StringEvaluator{
		engineName: engineName,
		name:       "inline-" + helpers.ShortSHA256(body),
		body:       body,
		cfg:        cfg,
	}, nil
}

func (e *StringEvaluator) String() string {
	return fmt.Sprintf("scripting.StringEvaluator{Engine: %q, Name: %s}", e.engineName, e.name)
}

func (e *StringEvaluator) Eval(ctx context.Context, sctx *bindings.Context) (any, error) {
	logger := e.cfg.logger.With("evalID", newEvalID(), "resource", e.name)

	eng, err := engine.Resolve(e.engineName, e.name, e.cfg.registry)
	if err != nil {
		return nil, err
	}
	logger = logger.With("engine", eng.Metadata().Name)

	src := engine.Source{Name: e.name, Body: e.body}
	return evaluate(ctx, logger, eng, src, sctx)
}

// evaluate runs src on eng and reports any failure as a *engine.ScriptExecutionError naming the
// engine and the resource.
func evaluate(
	ctx context.Context,
	logger *slog.Logger,
	eng engine.Engine,
	src engine.Source,
	sctx *bindings.Context,
) (any, error) {
	logger.Debug("evaluating script", "sha256", helpers.ShortSHA256(src.Body), "bytes", len(src.Body))

	startTime := time.Now()
	result, err := eng.Eval(ctx, src, sctx)
	execTime := time.Since(startTime)
	if err != nil {
		var xe *engine.ScriptExecutionError
		if !errors.As(err, &xe) {
			xe = engine.NewExecutionError(err, 0, 0)
		}
		if xe.Engine == "" {
			xe.Engine = eng.Metadata().Name
		}
		if xe.Resource == "" {
			xe.Resource = src.Name
		}
		logger.Debug("script execution failed", "execTime", execTime, "error", xe)
		return nil, xe
	}

	logger.Debug("script evaluated", "execTime", execTime, "resultType", fmt.Sprintf("%T", result))
	return result, nil
}

func newEvalID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return ""
	}
	return id.String()
}
