// Package signal defines the shared contract for external source adapters.
// Every adapter call produces a Result carrying an explicit status so callers
// can tell "the source has nothing" from "the source is down" without
// inspecting errors. Adapters never propagate transport failures; they degrade
// to a failure-status result and the pipeline keeps going.
package signal

// Status classifies an adapter call outcome
type Status string

const (
	// StatusData means the source returned usable data
	StatusData Status = "data"
	// StatusNoData means the source was reachable but has nothing for this
	// query; treat as final
	StatusNoData Status = "no-data"
	// StatusFailure means a transport or payload problem; the source may have
	// data on retry
	StatusFailure Status = "failure"
)

// Result is the outcome of one adapter call
type Result[T any] struct {
	Status Status
	Source string
	Value  T
	Err    error
}

// Data builds a successful result
func Data[T any](source string, value T) Result[T] {
	return Result[T]{Status: StatusData, Source: source, Value: value}
}

// NoData builds an empty-but-final result
func NoData[T any](source string) Result[T] {
	return Result[T]{Status: StatusNoData, Source: source}
}

// Failure builds a degraded result carrying the underlying error for logging
func Failure[T any](source string, err error) Result[T] {
	return Result[T]{Status: StatusFailure, Source: source, Err: err}
}

// OK reports whether the result carries data
func (r Result[T]) OK() bool {
	return r.Status == StatusData
}
