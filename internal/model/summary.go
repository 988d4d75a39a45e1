package model

import "time"

// ReconcileSummary captures metrics from a single reconciliation run.
type ReconcileSummary struct {
	RunID                  string
	Cutoff                 Date
	EventRows              int
	EventRowsRecovered     int
	Residents              int
	Eligible               int
	Excluded               int
	CertificationRows      int
	CertificationDiscarded int
	Certified              int
	NotCertified           int
	DurationLoad           time.Duration
	DurationEligibility    time.Duration
	DurationCertification  time.Duration
	DurationOutput         time.Duration
	DurationTotal          time.Duration
}
