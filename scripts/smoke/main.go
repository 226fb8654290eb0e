package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

type probe struct {
	Name     string
	Method   string
	Path     string
	Expect   int
	Critical bool
}

type result struct {
	Probe    probe
	Status   int
	OK       bool
	Err      error
	Duration time.Duration
}

func main() {
	var (
		base    string
		timeout time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	probes := []probe{
		{Name: "health", Method: http.MethodGet, Path: "/health", Expect: http.StatusOK, Critical: true},
		{Name: "ready", Method: http.MethodGet, Path: "/ready", Expect: http.StatusOK, Critical: true},
		{Name: "metrics", Method: http.MethodGet, Path: "/metrics", Expect: http.StatusOK},
		{Name: "categories", Method: http.MethodGet, Path: "/api/v1/categories", Expect: http.StatusOK},
		{Name: "auth-required", Method: http.MethodGet, Path: "/api/v1/bookings/mine", Expect: http.StatusUnauthorized, Critical: true},
	}

	client := &http.Client{Timeout: timeout}
	var failed, criticalFailed int

	for _, p := range probes {
		res := run(client, base, p)
		if res.Err != nil {
			log.Printf("FAIL %-14s %v", p.Name, res.Err)
		} else if !res.OK {
			log.Printf("FAIL %-14s got %d want %d (%s)", p.Name, res.Status, p.Expect, res.Duration)
		} else {
			log.Printf("ok   %-14s %d (%s)", p.Name, res.Status, res.Duration)
		}
		if !res.OK {
			failed++
			if p.Critical {
				criticalFailed++
			}
		}
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d probe(s) failed, %d critical\n", failed, criticalFailed)
	}
	if criticalFailed > 0 {
		os.Exit(1)
	}
}

func run(client *http.Client, base string, p probe) result {
	start := time.Now()
	req, err := http.NewRequest(p.Method, base+p.Path, nil)
	if err != nil {
		return result{Probe: p, Err: err}
	}

	resp, err := client.Do(req)
	if err != nil {
		return result{Probe: p, Err: err, Duration: time.Since(start)}
	}
	defer resp.Body.Close()

	// Drain so keep-alive connections get reused across probes.
	if _, err := io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20)); err != nil {
		return result{Probe: p, Status: resp.StatusCode, Err: err, Duration: time.Since(start)}
	}

	return result{
		Probe:    p,
		Status:   resp.StatusCode,
		OK:       resp.StatusCode == p.Expect,
		Duration: time.Since(start),
	}
}
