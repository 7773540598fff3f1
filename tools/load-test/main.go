package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Fires concurrent export requests at a running API to shake out temp-file
// collisions and cleanup leaks under load.
func main() {
	baseURL := flag.String("url", "http://localhost:8080/api/v1", "API base URL")
	userID := flag.String("user", "load-test-user", "token subject")
	clients := flag.Int("clients", 20, "client ids 1..N are exported")
	rounds := flag.Int("rounds", 50, "requests per client and format")
	concurrency := flag.Int("concurrency", 50, "number of requests in flight")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-change-me"
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": *userID,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	if err != nil {
		fmt.Fprintf(os.Stderr, "signing token: %v\n", err)
		os.Exit(1)
	}

	formats := []string{"csv", "pdf"}
	totalRequests := *clients * *rounds * len(formats)
	fmt.Printf("Starting load test: %d export requests to %s with concurrency %d\n", totalRequests, *baseURL, *concurrency)

	var wg sync.WaitGroup
	sem := make(chan struct{}, *concurrency)

	var successCount, notFoundCount, failCount int64
	client := &http.Client{Timeout: 30 * time.Second}
	startTime := time.Now()

	for r := 0; r < *rounds; r++ {
		for c := 1; c <= *clients; c++ {
			for _, format := range formats {
				wg.Add(1)
				sem <- struct{}{}

				go func(url string) {
					defer wg.Done()
					defer func() { <-sem }()

					req, err := http.NewRequest(http.MethodGet, url, nil)
					if err != nil {
						atomic.AddInt64(&failCount, 1)
						return
					}
					req.Header.Set("Authorization", "Bearer "+token)

					resp, err := client.Do(req)
					if err != nil {
						atomic.AddInt64(&failCount, 1)
						return
					}
					defer resp.Body.Close()
					_, _ = io.Copy(io.Discard, resp.Body)

					switch {
					case resp.StatusCode == http.StatusOK:
						atomic.AddInt64(&successCount, 1)
					case resp.StatusCode == http.StatusNotFound:
						atomic.AddInt64(&notFoundCount, 1)
					default:
						atomic.AddInt64(&failCount, 1)
					}
				}(fmt.Sprintf("%s/reports/export/%s/%d", *baseURL, format, c))
			}
		}
	}

	wg.Wait()
	duration := time.Since(startTime)

	fmt.Println("\n--- Load Test Results ---")
	fmt.Printf("Total Duration: %v\n", duration)
	fmt.Printf("Total Requests: %d\n", totalRequests)
	fmt.Printf("Successful:     %d\n", successCount)
	fmt.Printf("Not Found:      %d\n", notFoundCount)
	fmt.Printf("Failed:         %d\n", failCount)
	fmt.Printf("Requests/Sec:   %.2f\n", float64(totalRequests)/duration.Seconds())
}
