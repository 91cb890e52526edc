package analytics

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"brigade/internal/capability"
	"brigade/internal/models"
	"brigade/internal/monitoring"
)

const (
	// maxBuckets caps the returned series; older buckets are dropped first.
	// A performance bound, not a correctness requirement.
	maxBuckets = 30

	// sentimentSampleSize bounds classifier calls per bucket. Bucket
	// sentiment is estimated from this sample, never the full population.
	sentimentSampleSize = 10
)

// Bucketer groups feedback into time periods and computes per-bucket
// statistics. Rating averages cover each bucket's full population; sentiment
// is approximated from a bounded random sample to keep classifier-call
// volume flat regardless of history size.
type Bucketer struct {
	classifier capability.Classifier
	workers    int
}

// NewBucketer creates a bucketer using the given classifier.
func NewBucketer(c capability.Classifier) *Bucketer {
	return &Bucketer{classifier: c, workers: defaultWorkers}
}

// Buckets groups the records at the requested granularity and returns the
// series strictly ascending by period key, capped at maxBuckets.
func (b *Bucketer) Buckets(ctx context.Context, records []models.FeedbackRecord, period models.TrendPeriod) []models.TrendBucket {
	groups := make(map[string][]models.FeedbackRecord)
	for _, r := range records {
		key := periodKey(r, period)
		groups[key] = append(groups[key], r)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	if len(keys) > maxBuckets {
		keys = keys[len(keys)-maxBuckets:]
	}

	buckets := make([]models.TrendBucket, 0, len(keys))
	for _, key := range keys {
		group := groups[key]

		var ratingSum int
		for _, r := range group {
			ratingSum += r.Rating
		}
		avg := float64(ratingSum) / float64(len(group))

		sample := sampleRecords(group, sentimentSampleSize)
		monitoring.CountTrendSamples(len(sample))

		var dist models.SentimentDistribution
		for _, result := range classifyAll(ctx, b.classifier, sample, b.workers) {
			dist.Add(result.Label)
		}

		buckets = append(buckets, models.TrendBucket{
			PeriodKey:        key,
			FeedbackCount:    len(group),
			AverageRating:    math.Round(avg*10) / 10,
			SampledSentiment: dist,
			SampleSize:       len(sample),
		})
	}
	return buckets
}

// periodKey truncates a record's timestamp to the requested granularity.
// All formats sort lexicographically in chronological order.
func periodKey(r models.FeedbackRecord, period models.TrendPeriod) string {
	switch period {
	case models.PeriodDay:
		return r.CreatedAt.Format("2006-01-02")
	case models.PeriodWeek:
		year, week := r.CreatedAt.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case models.PeriodYear:
		return r.CreatedAt.Format("2006")
	default:
		return r.CreatedAt.Format("2006-01")
	}
}

// sampleRecords draws up to n records uniformly at random.
func sampleRecords(records []models.FeedbackRecord, n int) []models.FeedbackRecord {
	if len(records) <= n {
		return records
	}
	sample := make([]models.FeedbackRecord, n)
	for i, idx := range rand.Perm(len(records))[:n] {
		sample[i] = records[idx]
	}
	return sample
}
