package execctx

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Result is the uniform outcome of one action invocation. It is
// produced on every path: success, action failure, and even context
// construction failure.
type Result struct {
	// ActionName is the invoked action.
	ActionName string

	// ExecutionID uniquely identifies this invocation.
	ExecutionID string

	// Success is true when the action returned without error.
	Success bool

	// Duration covers context assembly and the action body.
	Duration time.Duration

	// Output is the buffered output, in emission order.
	Output []string

	// Err is the normalized failure, nil on success.
	Err error
}

// Executor runs actions. Run never panics and never returns an error
// out of band: callers always receive a Result to inspect.
type Executor struct {
	factory *Factory
	logger  *zap.Logger
}

// NewExecutor creates an executor over the context factory.
func NewExecutor(factory *Factory, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{factory: factory, logger: logger}
}

// Run builds a context, invokes the action, and normalizes the outcome.
// Duration is recorded whether the action succeeded or failed. A
// context-assembly failure yields a failed result with an empty output
// buffer rather than an escaping error.
func (e *Executor) Run(run RunFunc, p Params) Result {
	start := time.Now()
	result := Result{
		ActionName:  p.ActionName,
		ExecutionID: uuid.NewString(),
		Output:      []string{},
	}

	ctx, err := e.factory.New(p)
	if err != nil {
		result.Err = &ExecutionError{Action: p.ActionName, Err: err}
		result.Duration = time.Since(start)
		e.logger.Warn("context assembly failed",
			zap.String("action", p.ActionName), zap.Error(err))
		return result
	}

	runErr := e.invoke(p.ActionName, run, ctx)

	result.Output = ctx.Output.Messages()
	result.Duration = time.Since(start)
	if runErr != nil {
		result.Err = runErr
		e.logger.Debug("action failed",
			zap.String("action", p.ActionName),
			zap.String("execution", result.ExecutionID),
			zap.Duration("duration", result.Duration),
			zap.Error(runErr))
		return result
	}

	result.Success = true
	e.logger.Debug("action completed",
		zap.String("action", p.ActionName),
		zap.String("execution", result.ExecutionID),
		zap.Duration("duration", result.Duration))
	return result
}

// invoke calls the entrypoint with panic recovery, normalizing any
// raised value into an ExecutionError.
func (e *Executor) invoke(name string, run RunFunc, ctx *Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = normalizeRaised(name, r)
		}
	}()

	if run == nil {
		return &ExecutionError{Action: name, Err: ErrNilRun}
	}
	if runErr := run(ctx); runErr != nil {
		return &ExecutionError{Action: name, Err: runErr}
	}
	return nil
}
