// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metrics records publishing and compile measurements.
package metrics

import "time"

// Outcome labels used by IncPublishOutcome.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
	OutcomeInvalid = "invalid"
)

// Recorder receives compile and publishing measurements.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveCompileDuration(d time.Duration, success bool)
	AddCompiledFiles(category string, n int)
	IncPublishOutcome(op, outcome string) // op: publish|unpublish|rollback
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveCompileDuration(time.Duration, bool) {}
func (NoopRecorder) AddCompiledFiles(string, int)               {}
func (NoopRecorder) IncPublishOutcome(string, string)           {}
