// Package resource models a page's view of one backend fetch: idle until
// requested, then loading, then either success with data or error. Pages
// that need several fetches run them together with LoadAll.
package resource

import (
	"context"

	"golang.org/x/sync/errgroup"
)

type State int

const (
	Idle State = iota
	Loading
	Success
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

type Fetch[T any] func(ctx context.Context) (T, error)

type Resource[T any] struct {
	State State
	Data  T
	Err   error
}

// Load runs fetch once. On failure Data keeps whatever it held before.
func (r *Resource[T]) Load(ctx context.Context, fetch Fetch[T]) error {
	r.State = Loading
	data, err := fetch(ctx)
	if err != nil {
		r.State, r.Err = Error, err
		return err
	}
	r.State, r.Data, r.Err = Success, data, nil
	return nil
}

func (r *Resource[T]) Loaded() bool { return r.State == Success }

func (r *Resource[T]) Failed() bool { return r.State == Error }

// Message is the toast text for a failed fetch of what ("a agenda", "os cortes").
func (r *Resource[T]) Message(what string) string {
	if r.State != Error {
		return ""
	}
	return "Erro ao carregar " + what + "."
}

// Task binds a resource to its fetch for LoadAll.
func Task[T any](r *Resource[T], fetch Fetch[T]) func(context.Context) error {
	return func(ctx context.Context) error {
		return r.Load(ctx, fetch)
	}
}

// LoadAll runs every task concurrently and waits for all of them. Each
// resource records its own outcome; the first error is returned.
func LoadAll(ctx context.Context, tasks ...func(context.Context) error) error {
	var g errgroup.Group
	for _, task := range tasks {
		g.Go(func() error { return task(ctx) })
	}
	return g.Wait()
}
