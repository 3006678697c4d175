// Package prometheus provides Prometheus collectors for grcAuth metrics.
//
// [NewPrometheusExporter] accepts a [grcAuth.Engine] and exposes an [http.Handler]
// that renders all grcAuth counters in Prometheus text exposition format.
// Counter names are prefixed grcauth_*_total.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus
