// Package metrics defines the Prometheus collectors for form evaluation,
// submission delivery and login, and serves them over HTTP.
package metrics
