// Package middleware provides the HTTP middleware used by the preview API:
// request logging and Prometheus metrics collection.
package middleware
