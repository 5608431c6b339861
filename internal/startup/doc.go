// Package startup holds build information and the banner, route, and
// shutdown logging helpers used during process bring-up and teardown.
package startup
