// Package meshlab drives the external mesh-transform engine (meshlabserver)
// to decimate meshes and derive convex hulls.
package meshlab

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultOptArgs asks the engine to keep vertex and face normals in its
// output, matching the meshlabserver invocation the pipeline was built
// around.
const DefaultOptArgs = "-om vn fn"

// stderrExcerptLen caps how much engine stderr is carried in an EngineError.
const stderrExcerptLen = 512

// EngineError reports a non-zero engine exit. It is returned even in quiet
// mode; suppressing console echo never suppresses the failure itself.
type EngineError struct {
	ExitCode int
	Stderr   string
}

func (e *EngineError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("meshlab: engine exited with code %d", e.ExitCode)
	}
	return fmt.Sprintf("meshlab: engine exited with code %d: %s", e.ExitCode, e.Stderr)
}

// Invoker runs one engine pass over a mesh file. Implementations are
// synchronous: they return after the produced mesh is on disk.
type Invoker interface {
	Invoke(ctx context.Context, inPath, outPath, scriptPath string) error
}

// Engine invokes meshlabserver as a subprocess.
type Engine struct {
	// Command is the engine binary, "meshlabserver" by default.
	Command string
	// OptArgs is the raw engine option string, DefaultOptArgs by default.
	OptArgs string
	// Timeout bounds one invocation; zero means no timeout. A hung engine
	// otherwise hangs the whole run.
	Timeout time.Duration
	// Verbose forwards the engine's stdout to the logger. It never changes
	// the produced artifact.
	Verbose bool

	log *zap.Logger
}

// NewEngine returns an Engine with defaults filled in.
func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		Command: "meshlabserver",
		OptArgs: DefaultOptArgs,
		log:     log,
	}
}

// Invoke runs `<command> -i <in> -o <out> <optargs> -s <script>` and waits
// for it to exit.
func (e *Engine) Invoke(ctx context.Context, inPath, outPath, scriptPath string) error {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	args := []string{"-i", inPath, "-o", outPath}
	args = append(args, strings.Fields(e.OptArgs)...)
	args = append(args, "-s", scriptPath)

	cmd := exec.CommandContext(ctx, e.Command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.log.Debug("invoking mesh engine",
		zap.String("command", e.Command),
		zap.Strings("args", args))

	err := cmd.Run()
	if e.Verbose && stdout.Len() > 0 {
		e.log.Info("engine output", zap.String("stdout", stdout.String()))
	}
	if err == nil {
		return nil
	}

	if ctx.Err() != nil {
		return errors.Wrapf(ctx.Err(), "meshlab: engine timed out on %q", inPath)
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return &EngineError{
			ExitCode: exitErr.ExitCode(),
			Stderr:   excerpt(stderr.String()),
		}
	}
	return errors.Wrapf(err, "meshlab: start %q", e.Command)
}

func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > stderrExcerptLen {
		s = s[:stderrExcerptLen]
	}
	return s
}
