// Package health serves liveness and readiness probes.
//
//	r.Get("/live", health.Liveness[*web.Context])
//	r.Get("/ready", health.Readiness[*web.Context](log, pg.Healthcheck(pool)))
package health
