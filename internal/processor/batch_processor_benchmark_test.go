package processor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"nogus/server/internal/models"
)

func generateTestRequests(count int) []*models.AnalysisRequest {
	requests := make([]*models.AnalysisRequest, count)
	for i := range requests {
		input := flatInput(fmt.Sprintf("property %d", i))
		input.Acquisition.PricePerUnit += float64(i * 1000)
		requests[i] = &models.AnalysisRequest{ID: fmt.Sprintf("bench-%d", i), Input: input}
	}
	return requests
}

func BenchmarkProcessBatch(b *testing.B) {
	db := setupTestDB(b)

	for _, batchSize := range []int{10, 50, 100} {
		for _, workers := range []int{1, 4} {
			b.Run(fmt.Sprintf("BatchSize_%d_Workers_%d", batchSize, workers), func(b *testing.B) {
				cfg := testConfig()
				cfg.Analysis.Workers = workers
				processor, _ := newTestProcessor(db, cfg)
				batch := generateTestRequests(batchSize)

				b.ReportAllocs()
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					require.NoError(b, processor.processBatch(batch))
				}
				b.ReportMetric(float64(batchSize*b.N)/b.Elapsed().Seconds(), "analyses/sec")
			})
		}
	}
}
