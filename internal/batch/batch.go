// Package batch validates many documents against one shared schema
// concurrently.
package batch

import (
	"context"

	"golang.org/x/sync/errgroup"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/schema"
	"github.com/reoring/skema/source"
)

// Doc is one named document.
type Doc struct {
	Name  string
	Value any
}

// Result is the outcome for one document. Err is a *skema.ValidationError
// for an invalid document, or the load error for a file that could not be
// read or decoded.
type Result struct {
	Name string
	Err  error
}

// Valid reports whether the document passed.
func (r Result) Valid() bool { return r.Err == nil }

// Options tunes a batch run.
type Options struct {
	FullScan bool
	// Concurrency bounds the number of documents in flight. Values < 1 mean 1.
	Concurrency int
}

// Runner validates documents with a shared Validator.
type Runner struct {
	v    *skema.Validator
	opts Options
}

// New returns a Runner.
func New(v *skema.Validator, opts Options) *Runner {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Runner{v: v, opts: opts}
}

// Validate checks every doc against node. Results keep the order of docs.
// The only error returned is ctx's.
func (r *Runner) Validate(ctx context.Context, node *schema.Node, docs []Doc) ([]Result, error) {
	return r.run(ctx, len(docs), func(i int) Result {
		return Result{Name: docs[i].Name, Err: r.v.Check(docs[i].Value, node, r.opts.FullScan)}
	})
}

// Files loads each path with package source and validates it against node.
func (r *Runner) Files(ctx context.Context, node *schema.Node, paths []string) ([]Result, error) {
	return r.run(ctx, len(paths), func(i int) Result {
		v, err := source.ReadFile(paths[i])
		if err != nil {
			return Result{Name: paths[i], Err: err}
		}
		return Result{Name: paths[i], Err: r.v.Check(v, node, r.opts.FullScan)}
	})
}

func (r *Runner) run(ctx context.Context, n int, one func(i int) Result) ([]Result, error) {
	results := make([]Result, n)
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = one(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Invalid counts failed results.
func Invalid(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Valid() {
			n++
		}
	}
	return n
}
