package querycache

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status reports whether a query has data, an error, or neither yet.
type Status uint8

const (
	StatusPending Status = iota
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "pending"
	}
}

// MarshalText renders the status name.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// FetchStatus reports whether a fetch is running for a query.
type FetchStatus uint8

const (
	FetchIdle FetchStatus = iota
	FetchFetching
)

func (s FetchStatus) String() string {
	if s == FetchFetching {
		return "fetching"
	}
	return "idle"
}

// MarshalText renders the fetch status name.
func (s FetchStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Result is the observable state of one query. Data keeps the last good value
// even when Err reports a failed refetch.
type Result[T any] struct {
	Data        T           `json:"data"`
	Err         error       `json:"-"`
	Status      Status      `json:"status"`
	FetchStatus FetchStatus `json:"fetchStatus"`
	// Fetched is set when this call ran or joined a fetch.
	Fetched   bool      `json:"-"`
	Stale     bool      `json:"stale"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r Result[T]) IsPending() bool { return r.Status == StatusPending }
func (r Result[T]) IsLoading() bool { return r.Status == StatusPending && r.FetchStatus == FetchFetching }
func (r Result[T]) IsSuccess() bool { return r.Status == StatusSuccess }
func (r Result[T]) IsError() bool   { return r.Status == StatusError }

// Typed narrows a result delivered to a Listener.
func Typed[T any](key Key, r Result[any]) Result[T] {
	return convert[T](key, r)
}

// convert narrows an untyped result. Snapshot payloads restored from storage
// arrive as raw JSON and are decoded here.
func convert[T any](key Key, in Result[any]) Result[T] {
	out := Result[T]{
		Err:         in.Err,
		Status:      in.Status,
		FetchStatus: in.FetchStatus,
		Fetched:     in.Fetched,
		Stale:       in.Stale,
		UpdatedAt:   in.UpdatedAt,
	}
	data, err := as[T](in.Data)
	if err != nil {
		out.Err = fmt.Errorf("query %s: %w", key, err)
		out.Status = StatusError
		return out
	}
	out.Data = data
	return out
}

func as[T any](value any) (T, error) {
	var zero T
	if value == nil {
		return zero, nil
	}
	if typed, ok := value.(T); ok {
		return typed, nil
	}
	if raw, ok := value.(json.RawMessage); ok {
		var out T
		if err := json.Unmarshal(raw, &out); err != nil {
			return zero, fmt.Errorf("decode cached %T: %w", zero, err)
		}
		return out, nil
	}
	return zero, fmt.Errorf("cached %T is not %T", value, zero)
}
