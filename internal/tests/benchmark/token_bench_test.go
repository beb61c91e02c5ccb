package benchmark

import (
	"testing"
	"time"

	"github.com/syncron/awareness-go/pkg/progresstoken"
)

func benchClaims() progresstoken.Claims {
	return progresstoken.Claims{
		SessionID: progresstoken.GenerateNonce(),
		Step:      1,
		Nonce:     progresstoken.GenerateNonce(),
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}
}

// BenchmarkTokenSign benchmarks token signing.
func BenchmarkTokenSign(b *testing.B) {
	codec := newCodec(b)
	claims := benchClaims()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := codec.Sign(claims); err != nil {
			b.Fatalf("Sign failed: %v", err)
		}
	}
}

// BenchmarkTokenVerify benchmarks verification of a valid token.
func BenchmarkTokenVerify(b *testing.B) {
	codec := newCodec(b)
	tok, err := codec.Sign(benchClaims())
	if err != nil {
		b.Fatalf("Sign failed: %v", err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := codec.Verify(tok); err != nil {
			b.Fatalf("Verify failed: %v", err)
		}
	}
}

// BenchmarkTokenVerifyTampered benchmarks the signature rejection path.
func BenchmarkTokenVerifyTampered(b *testing.B) {
	codec := newCodec(b)
	tok, err := codec.Sign(benchClaims())
	if err != nil {
		b.Fatalf("Sign failed: %v", err)
	}
	last := tok[len(tok)-1]
	swap := byte('A')
	if last == 'A' {
		swap = 'B'
	}
	tampered := tok[:len(tok)-1] + string(swap)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := codec.Verify(tampered); err == nil {
			b.Fatal("tampered token verified")
		}
	}
}

// BenchmarkTokenVerifyConcurrent benchmarks concurrent verification.
func BenchmarkTokenVerifyConcurrent(b *testing.B) {
	codec := newCodec(b)
	tok, err := codec.Sign(benchClaims())
	if err != nil {
		b.Fatalf("Sign failed: %v", err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := codec.Verify(tok); err != nil {
				b.Errorf("Verify failed: %v", err)
				return
			}
		}
	})
}

// BenchmarkGenerateNonce benchmarks nonce generation.
func BenchmarkGenerateNonce(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = progresstoken.GenerateNonce()
	}
}
