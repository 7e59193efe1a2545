package swarm

import "golang.org/x/sync/errgroup"

// Limited runs each batch on fresh goroutines, at most n at a time. It holds
// no goroutines between batches and needs no Close.
type Limited struct {
	n int
}

// NewLimited returns an executor with parallelism n. A value below 1 is treated as 1.
func NewLimited(n int) *Limited {
	if n < 1 {
		n = 1
	}
	return &Limited{n: n}
}

func (l *Limited) Size() int {
	return l.n
}

func (l *Limited) Run(tasks []Task) error {
	var g errgroup.Group
	g.SetLimit(l.n)
	for _, t := range tasks {
		g.Go(func() error {
			t()
			return nil
		})
	}
	return g.Wait()
}
