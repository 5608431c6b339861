package startup

import (
	"os"
	"runtime"
	"time"

	"preview-engine/internal/logging"
	"preview-engine/internal/metrics"

	"github.com/gorilla/mux"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// LogStartup prints the banner and system information and records the
// build info metric.
func LogStartup() {
	logging.Info("============================================================")
	logging.Info("preview-engine %s (commit %s, built %s)", Version, Commit, BuildTime)
	logging.Info("============================================================")
	logging.Info("go %s on %s/%s, %d CPUs", GoVersion, runtime.GOOS, runtime.GOARCH, runtime.NumCPU())

	metrics.SetAppInfo(Version, GoVersion)
}

// LogRoutes walks the router and logs every registered route.
func LogRoutes(router *mux.Router) {
	logging.Info("registered routes:")
	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, err := route.GetPathTemplate()
		if err != nil {
			return nil //nolint:nilerr // subrouters without a path are expected
		}
		methods, err := route.GetMethods()
		if err != nil {
			logging.Info("  %s", path)
			return nil //nolint:nilerr // routes without methods are expected
		}
		for _, m := range methods {
			logging.Info("  %-6s %s", m, path)
		}
		return nil
	})
	if err != nil {
		logging.Warn("failed to walk routes: %v", err)
	}
}

// LogServerStarted marks the end of bring-up.
func LogServerStarted(addr string, elapsed time.Duration) {
	logging.Info("listening on %s (started in %s)", addr, elapsed.Round(time.Millisecond))
}

// LogShutdownInitiated marks the start of teardown.
func LogShutdownInitiated(reason string) {
	logging.Info("shutdown initiated (%s)", reason)
}

// LogShutdownComplete marks the end of teardown.
func LogShutdownComplete() {
	logging.Info("shutdown complete")
}

// LogFatal logs the message at error level and exits.
func LogFatal(format string, args ...interface{}) {
	logging.Error(format, args...)
	os.Exit(1)
}
