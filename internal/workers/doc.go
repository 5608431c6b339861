// Package workers provides worker-count heuristics that respect container
// CPU limits, and the bounded task pool backing asynchronous preview
// generation.
//
// Go 1.19+ sets GOMAXPROCS from cgroup CPU limits, while runtime.NumCPU()
// still reports the host count; the sizing helpers therefore derive counts
// from GOMAXPROCS. The PREVIEW_WORKERS environment variable overrides the
// automatic calculation.
package workers
