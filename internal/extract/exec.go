package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"preview-engine/internal/metrics"
)

// toolTimeout bounds every external tool invocation. A timed-out call is a
// generation error, never a fatal process condition.
const toolTimeout = 30 * time.Second

// errToolTimeout marks an external process that exceeded toolTimeout.
var errToolTimeout = errors.New("external tool timed out")

// runTool invokes an external read-only tool with a capped timeout and
// returns its stdout. Tools are never given write access to the source file.
func runTool(name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), toolTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		metrics.ExternalToolInvocations.WithLabelValues(name, "timeout").Inc()
		return nil, fmt.Errorf("%w: %s", errToolTimeout, name)
	}
	if err != nil {
		metrics.ExternalToolInvocations.WithLabelValues(name, "error").Inc()
		return nil, fmt.Errorf("%s failed: %w - %s", name, err, stderr.String())
	}

	metrics.ExternalToolInvocations.WithLabelValues(name, "success").Inc()
	return stdout.Bytes(), nil
}

// toolAvailable probes for a binary on PATH once at extractor construction.
func toolAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
