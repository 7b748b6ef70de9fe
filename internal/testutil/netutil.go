package testutil

import (
	"net"
	"testing"
)

// FreePort возвращает свободный TCP порт на 127.0.0.1.
// Порт освобождается перед возвратом, поэтому возможна гонка с другими
// процессами; для локальных тестов этого достаточно.
func FreePort(t testing.TB) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listening on free port: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	if err := ln.Close(); err != nil {
		t.Fatalf("closing listener: %v", err)
	}
	return port
}
