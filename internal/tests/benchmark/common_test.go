package benchmark

import (
	"context"
	"fmt"
	"runtime"
	"testing"
	"time"

	"github.com/syncron/awareness-go/internal/core/domain"
	"github.com/syncron/awareness-go/internal/core/service"
	"github.com/syncron/awareness-go/internal/telemetry/logger"
	"github.com/syncron/awareness-go/pkg/progresstoken"
)

const benchSecret = "benchmark-secret-with-at-least-32-bytes"

// SmallSessionCounts for quick benchmarks.
var SmallSessionCounts = []int{1000, 5000, 10000}

func newCodec(b *testing.B) *progresstoken.Codec {
	b.Helper()
	codec, err := progresstoken.New([]byte(benchSecret))
	if err != nil {
		b.Fatalf("progresstoken.New failed: %v", err)
	}
	return codec
}

func newService(b *testing.B, repo service.SessionRepository) *service.ProgressService {
	b.Helper()
	return service.NewProgressService(repo, newCodec(b), service.WithLogger(logger.Discard()))
}

// prefillStore creates count sessions at step 0 and returns their ids.
func prefillStore(ctx context.Context, b *testing.B, repo service.SessionRepository, count int) []string {
	b.Helper()
	now := time.Now()
	ids := make([]string, count)
	for i := range ids {
		s := domain.NewSession(progresstoken.GenerateNonce(), now)
		if err := repo.Create(ctx, s); err != nil {
			b.Fatalf("Create failed: %v", err)
		}
		ids[i] = s.ID
	}
	return ids
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runWithSessionCounts runs a benchmark function with various session counts.
func runWithSessionCounts(b *testing.B, counts []int, benchFn func(b *testing.B, count int)) {
	for _, count := range counts {
		b.Run(fmt.Sprintf("sessions_%d", count), func(b *testing.B) {
			benchFn(b, count)
		})
	}
}
