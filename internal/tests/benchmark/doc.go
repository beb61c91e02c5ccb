// Package benchmark provides performance benchmarks for the progress token
// codec and the session registry.
//
// Run benchmarks with:
//
//	go test -bench=. -benchmem ./internal/tests/benchmark/...
//
// Run only the registry benchmarks:
//
//	go test -bench=BenchmarkService -benchmem -benchtime=10s ./internal/tests/benchmark/...
//
// Compare results:
//
//	benchstat old.txt new.txt
package benchmark
