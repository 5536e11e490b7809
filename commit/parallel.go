//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package commit

import (
	"golang.org/x/sync/errgroup"
)

// RunParallel runs fn for the executions 0...n-1 in separate
// goroutines. It waits for all executions to complete and returns
// the first error. Each execution must use its own clone and
// connection.
func RunParallel(n int, fn func(e int) error) error {
	var g errgroup.Group
	for e := 0; e < n; e++ {
		g.Go(func() error {
			return fn(e)
		})
	}
	return g.Wait()
}
