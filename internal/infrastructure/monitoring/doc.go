/*
Package monitoring provides Prometheus metrics for the procintf service.

# Overview

Each Metrics value owns a private prometheus.Registry, so several servers
(or tests) can live in one process without duplicate registration panics.
It tracks HTTP traffic, access point calls, time spent waiting for the
shared context lock, and the lifecycle state.

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "debug-level", monitoring.OpWrite)
	_, err := ns.Write(ctx, path, caller, data)
	timer.Stop(err)

	store := state.New(state.WithWaitObserver(metrics.ObserveLockWait))
*/
package monitoring
