// Package orchestrator wires the schema loader → form → renderer pipeline
// behind a single Generate call, so the CLI and embedding programs do not
// repeat the fetch, prefill and renderer lookup steps.
package orchestrator
