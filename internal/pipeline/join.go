package pipeline

import "golang.org/x/sync/errgroup"

// runAll issues one task per item and waits for every task to finish. It
// returns all results in item order, or the first error if any task failed.
// Sibling tasks are not cancelled when one fails.
func runAll[T, R any](items []T, fn func(int, T) (R, error)) ([]R, error) {
	results := make([]R, len(items))

	var g errgroup.Group
	for i, item := range items {
		g.Go(func() error {
			r, err := fn(i, item)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
