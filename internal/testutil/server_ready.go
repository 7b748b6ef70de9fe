package testutil

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// WaitForHTTPReady ждёт пока url начнёт отвечать 200 (polling с timeout).
// Используется вместо time.Sleep после запуска сервера в горутине.
//
// Пример:
//
//	go run(ctx)
//	if err := testutil.WaitForHTTPReady("http://"+addr+"/api/healthz", 5*time.Second); err != nil {
//	    t.Fatalf("server failed to start: %v", err)
//	}
func WaitForHTTPReady(url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	client := &http.Client{Timeout: 200 * time.Millisecond}
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for %s: %w", url, ctx.Err())
		case <-ticker.C:
			resp, err := client.Get(url)
			if err != nil {
				continue
			}
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
	}
}
