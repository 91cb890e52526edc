package analytics

import (
	"context"
	"sort"
	"testing"
	"time"

	"brigade/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketsGroupAndOrderByPeriod(t *testing.T) {
	base := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	records := []models.FeedbackRecord{
		fb(1, 1, nil, 4, "", base.AddDate(0, 2, 0)),
		fb(2, 1, nil, 2, "", base),
		fb(3, 1, nil, 5, "", base.AddDate(0, 2, 3)),
		fb(4, 1, nil, 3, "", base.AddDate(0, 1, 0)),
	}

	buckets := NewBucketer(&stubClassifier{}).Buckets(context.Background(), records, models.PeriodMonth)

	require.Len(t, buckets, 3)
	assert.Equal(t, "2025-03", buckets[0].PeriodKey)
	assert.Equal(t, "2025-04", buckets[1].PeriodKey)
	assert.Equal(t, "2025-05", buckets[2].PeriodKey)
	assert.True(t, sort.SliceIsSorted(buckets, func(i, j int) bool {
		return buckets[i].PeriodKey < buckets[j].PeriodKey
	}))

	// May holds ratings 4 and 5 over its full population.
	assert.Equal(t, 2, buckets[2].FeedbackCount)
	assert.Equal(t, 4.5, buckets[2].AverageRating)
}

func TestBucketsCapAtThirtyDroppingOldest(t *testing.T) {
	start := time.Date(2020, time.January, 15, 0, 0, 0, 0, time.UTC)
	var records []models.FeedbackRecord
	for i := 0; i < 35; i++ {
		records = append(records, fb(uint(i+1), 1, nil, 3, "", start.AddDate(0, i, 0)))
	}

	buckets := NewBucketer(&stubClassifier{}).Buckets(context.Background(), records, models.PeriodMonth)

	require.Len(t, buckets, 30)
	// The five oldest months are gone.
	assert.Equal(t, "2020-06", buckets[0].PeriodKey)
	assert.Equal(t, "2022-11", buckets[len(buckets)-1].PeriodKey)
}

func TestBucketsSampleSentimentIsBounded(t *testing.T) {
	at := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	classifier := &stubClassifier{}
	var records []models.FeedbackRecord
	for i := 0; i < 25; i++ {
		records = append(records, fb(uint(i+1), 1, nil, 4, "solid", at))
	}

	buckets := NewBucketer(classifier).Buckets(context.Background(), records, models.PeriodMonth)

	require.Len(t, buckets, 1)
	// Rating average covers all 25 records; sentiment is estimated from a
	// bounded sample.
	assert.Equal(t, 25, buckets[0].FeedbackCount)
	assert.Equal(t, 4.0, buckets[0].AverageRating)
	assert.Equal(t, sentimentSampleSize, buckets[0].SampleSize)
	assert.Equal(t, sentimentSampleSize, buckets[0].SampledSentiment.Total())
	assert.Equal(t, sentimentSampleSize, classifier.callCount())
}

func TestBucketsSmallBucketClassifiesEverything(t *testing.T) {
	at := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	records := []models.FeedbackRecord{
		fb(1, 1, nil, 4, "a", at),
		fb(2, 1, nil, 2, "b", at),
	}

	buckets := NewBucketer(&stubClassifier{}).Buckets(context.Background(), records, models.PeriodMonth)

	require.Len(t, buckets, 1)
	assert.Equal(t, 2, buckets[0].SampleSize)
	assert.Equal(t, 2, buckets[0].SampledSentiment.Total())
}

func TestPeriodKeyFormats(t *testing.T) {
	at := time.Date(2025, time.January, 2, 9, 30, 0, 0, time.UTC)
	r := fb(1, 1, nil, 3, "", at)

	assert.Equal(t, "2025-01-02", periodKey(r, models.PeriodDay))
	assert.Equal(t, "2025-W01", periodKey(r, models.PeriodWeek))
	assert.Equal(t, "2025-01", periodKey(r, models.PeriodMonth))
	assert.Equal(t, "2025", periodKey(r, models.PeriodYear))
}

func TestBucketsEmptyInput(t *testing.T) {
	buckets := NewBucketer(&stubClassifier{}).Buckets(context.Background(), nil, models.PeriodMonth)
	assert.Empty(t, buckets)
}
