package analytics

import (
	"context"

	"brigade/internal/capability"
	"brigade/internal/models"

	"golang.org/x/sync/errgroup"
)

// defaultWorkers bounds how many classifier calls run at once for a single
// analytics request, so a large feedback history cannot open an unbounded
// number of simultaneous external calls.
const defaultWorkers = 8

// classifyAll classifies every record's comment concurrently and returns the
// results aligned with the input by index. Completion order is irrelevant;
// each result is re-associated with its source record through its slot.
// Classifier failures degrade per call and never abort the batch.
func classifyAll(ctx context.Context, c capability.Classifier, records []models.FeedbackRecord, workers int) []models.SentimentResult {
	if workers <= 0 {
		workers = defaultWorkers
	}

	results := make([]models.SentimentResult, len(records))
	var g errgroup.Group
	g.SetLimit(workers)
	for i := range records {
		i, comment := i, records[i].Comment
		g.Go(func() error {
			results[i] = c.Classify(ctx, comment).Value
			return nil
		})
	}
	g.Wait() // workers never return errors; degradation happens per call

	return results
}
