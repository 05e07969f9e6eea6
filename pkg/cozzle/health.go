package cozzle

import (
	"fmt"
	"time"
)

// HealthStatus represents the overall health state of a component.
type HealthStatus string

const (
	// HealthOK indicates the component is functioning normally.
	HealthOK HealthStatus = "ok"
	// HealthDegraded indicates partial functionality or non-critical issues.
	HealthDegraded HealthStatus = "degraded"
	// HealthUnhealthy indicates the component is not functioning.
	HealthUnhealthy HealthStatus = "unhealthy"
)

// HealthCheck contains the health status of the instance and its components.
type HealthCheck struct {
	// Status is the overall health status.
	Status HealthStatus
	// Timestamp is when the health check was performed.
	Timestamp time.Time
	// Uptime is the duration since the instance started (zero if not running).
	Uptime time.Duration
	// Components maps instance, frontend, puzzle, watcher and errors to
	// their health.
	Components map[string]ComponentHealth
	// Message provides additional context about the health status.
	Message string
}

// ComponentHealth represents the health status of an individual component.
type ComponentHealth struct {
	Status      HealthStatus
	Message     string
	LastUpdated time.Time
}

// IsHealthy returns true if the overall status is HealthOK.
func (h HealthCheck) IsHealthy() bool {
	return h.Status == HealthOK
}

// IsDegraded returns true if the overall status is HealthDegraded.
func (h HealthCheck) IsDegraded() bool {
	return h.Status == HealthDegraded
}

// IsUnhealthy returns true if the overall status is HealthUnhealthy.
func (h HealthCheck) IsUnhealthy() bool {
	return h.Status == HealthUnhealthy
}

// Health returns a health check result for the instance.
func (c *cozzleImpl) Health() HealthCheck {
	now := time.Now()
	running := c.running.Load()
	component := func(status HealthStatus, format string, args ...any) ComponentHealth {
		return ComponentHealth{Status: status, Message: fmt.Sprintf(format, args...), LastUpdated: now}
	}
	components := make(map[string]ComponentHealth, 5)

	c.mu.RLock()
	var uptime time.Duration
	if running && !c.startTime.IsZero() {
		uptime = now.Sub(c.startTime)
	}
	front := c.front
	watching := c.watcher != nil
	c.mu.RUnlock()

	if running {
		components["instance"] = component(HealthOK, "Instance is running")
	} else {
		components["instance"] = component(HealthUnhealthy, "Instance is not running")
	}

	switch {
	case running && front != nil:
		components["frontend"] = component(HealthOK, "%s front end active", c.opts.Frontend)
	case front != nil:
		components["frontend"] = component(HealthDegraded, "%s front end exited", c.opts.Frontend)
	default:
		components["frontend"] = component(HealthUnhealthy, "Front end not started")
	}

	if running && front != nil {
		snap := front.Snapshot()
		components["puzzle"] = component(HealthOK, "%d cells, %d moves, %d solved", snap.Current.Len(), snap.Moves, snap.Wins)
	} else {
		components["puzzle"] = component(HealthDegraded, "No puzzle dealt")
	}

	switch {
	case !c.opts.WatchConfig:
		components["watcher"] = component(HealthOK, "Config watching disabled")
	case watching:
		components["watcher"] = component(HealthOK, "Watching %s", c.watchPath)
	case running:
		components["watcher"] = component(HealthDegraded, "Config watching requested but inactive")
	default:
		components["watcher"] = component(HealthOK, "Watcher stopped with the instance")
	}

	lastErr := c.getError()
	if lastErr != nil {
		components["errors"] = component(HealthDegraded, "%s", lastErr.Error())
	} else {
		components["errors"] = component(HealthOK, "No recent errors")
	}

	overallStatus := HealthOK
	message := "All components healthy"
	switch {
	case !running:
		overallStatus = HealthUnhealthy
		message = "Instance is not running"
	case lastErr != nil:
		overallStatus = HealthDegraded
		message = "Running with recent errors"
	case components["watcher"].Status != HealthOK:
		overallStatus = HealthDegraded
		message = components["watcher"].Message
	}

	return HealthCheck{
		Status:     overallStatus,
		Timestamp:  now,
		Uptime:     uptime,
		Components: components,
		Message:    message,
	}
}
