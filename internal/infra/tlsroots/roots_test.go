package tlsroots

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeTestPair writes a self-signed localhost certificate and its key and
// returns the certificate PEM.
func writeTestPair(t *testing.T, certFile, keyFile string, serial int64) []byte {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(serial),
		Subject:               pkix.Name{CommonName: "awareness-test"},
		DNSNames:              []string{"localhost"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})
	if err := os.WriteFile(certFile, certPEM, 0o600); err != nil {
		t.Fatalf("write cert: %v", err)
	}
	if err := os.WriteFile(keyFile, keyPEM, 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}
	return certPEM
}

func TestAppendPEM(t *testing.T) {
	dir := t.TempDir()
	certPEM := writeTestPair(t, filepath.Join(dir, "c.pem"), filepath.Join(dir, "k.pem"), 1)

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"single certificate", certPEM, nil},
		{"empty", nil, ErrNoCertsFound},
		{"not pem", []byte("not a certificate"), ErrNoCertsFound},
		{"key only", pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: []byte{1}}), ErrNoCertsFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AppendPEM(x509.NewCertPool(), tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AppendPEM() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("invalid certificate", func(t *testing.T) {
		bad := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: []byte("junk")})
		if err := AppendPEM(x509.NewCertPool(), bad); err == nil || errors.Is(err, ErrNoCertsFound) {
			t.Errorf("expected parse error, got %v", err)
		}
	})
}

func TestSystemPool(t *testing.T) {
	if SystemPool() == nil {
		t.Fatal("SystemPool() returned nil")
	}
}

func TestClientConfig(t *testing.T) {
	dir := t.TempDir()
	caFile := filepath.Join(dir, "ca.pem")
	writeTestPair(t, caFile, filepath.Join(dir, "k.pem"), 1)

	cfg, err := ClientConfig(caFile, "redis.internal")
	if err != nil {
		t.Fatalf("ClientConfig failed: %v", err)
	}
	if cfg.ServerName != "redis.internal" || cfg.MinVersion != tls.VersionTLS12 || cfg.RootCAs == nil {
		t.Errorf("unexpected config: %+v", cfg)
	}

	if _, err := ClientConfig("", "redis.internal"); err != nil {
		t.Errorf("ClientConfig without CA failed: %v", err)
	}
	if _, err := ClientConfig(filepath.Join(dir, "missing.pem"), ""); err == nil {
		t.Error("expected error for missing CA file")
	}
}
