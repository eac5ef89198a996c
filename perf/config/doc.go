// Package config provides configuration types and parsing for metric
// simulations.
//
// A simulation describes the counters to build (limits, interval ring,
// hourly window) and a sequence of load phases whose synthetic latency
// samples are fed through them.
//
// # Configuration Schema
//
// Simulations use YAML or JSON format:
//
//	name: "checkout latency"
//	seed: 42
//	limits: [10, 50, 100, 250, 500, 1000]
//	limitUnit: 1ms
//	interval: 1h
//	intervals: 12
//	consistency: best-effort
//
//	hourly:
//	  hours: 24
//	  granularity: 15
//
//	phases:
//	  - name: morning
//	    duration: 3h
//	    samples: 5000
//	    distribution:
//	      kind: exponential
//	      mean: 80ms
//	  - name: incident
//	    duration: 30m
//	    samples: 2000
//	    distribution:
//	      kind: uniform
//	      min: 400ms
//	      max: 2s
//
// Durations accept Go duration strings ("90s", "1h30m") or bare numbers,
// which are read as seconds.
//
// # Loading Configuration
//
//	cfg, err := config.LoadConfig("simulation.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// LoadConfig checks the document against the embedded JSON Schema, applies
// defaults and runs the semantic validation in Validate.
//
// # Supported Distributions
//
//   - constant: every sample is value
//   - uniform: samples spread evenly between min and max
//   - exponential: samples with the given mean
//   - normal: samples around mean with stddev, clamped at zero
package config
