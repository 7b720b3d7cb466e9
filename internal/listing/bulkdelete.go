package listing

import (
	"context"
	"sync"
)

// BulkResult summarises a bulk deletion: which rows went away and
// which ones the server refused, with the refusal reason.
type BulkResult struct {
	Deleted []string
	Failed  map[string]error
}

// BulkDelete issues one delete per ID concurrently and collects the
// outcome of each. Failures never abort the remaining deletions.
func BulkDelete(ctx context.Context, ids []string, del func(ctx context.Context, id string) error) BulkResult {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result = BulkResult{Failed: make(map[string]error)}
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			err := del(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed[id] = err
				return
			}
			result.Deleted = append(result.Deleted, id)
		}(id)
	}
	wg.Wait()
	return result
}
