package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"
)

// Replays a list of read-only endpoints against both the Go API and the
// legacy Node API and reports status/body differences. Critical targets
// failing makes the run exit non-zero so CI can gate the cutover.

type endpoint struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Critical bool   `json:"critical"`
}

type manifest struct {
	Endpoints []endpoint `json:"endpoints"`
}

type diff struct {
	Endpoint      endpoint
	LegacyStatus  int
	PortStatus    int
	StatusMatch   bool
	BodyMatch     bool
	Err           error
	PortLatency   time.Duration
	LegacyLatency time.Duration
}

func main() {
	var (
		portBase     string
		legacyBase   string
		manifestPath string
		timeout      time.Duration
	)

	flag.StringVar(&portBase, "port-base", "http://localhost:8080", "Go API base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:3000", "legacy Node API base URL")
	flag.StringVar(&manifestPath, "manifest", filepath.Join("scripts", "shadow_compare", "targets.json"), "path to the endpoint manifest")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "per-request timeout")
	flag.Parse()

	endpoints, err := loadManifest(manifestPath)
	if err != nil {
		log.Fatalf("failed to load manifest: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var (
		diffs    []diff
		breaking int
		cosmetic int
	)

	for _, ep := range endpoints {
		d := compare(client, portBase, legacyBase, ep)
		if d.Err != nil || !d.StatusMatch || !d.BodyMatch {
			if ep.Critical {
				breaking++
			} else {
				cosmetic++
			}
		}
		diffs = append(diffs, d)
	}

	report(diffs)

	fmt.Printf("Breaking diffs: %d, cosmetic diffs: %d\n", breaking, cosmetic)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadManifest(path string) ([]endpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if len(m.Endpoints) == 0 {
		return nil, fmt.Errorf("no endpoints defined in %s", path)
	}
	return m.Endpoints, nil
}

func compare(client *http.Client, portBase, legacyBase string, ep endpoint) diff {
	d := diff{Endpoint: ep}

	portResp, portDur, err := fetch(client, portBase, ep)
	if err != nil {
		d.Err = fmt.Errorf("port request failed: %w", err)
		return d
	}
	defer portResp.Body.Close()

	legacyResp, legacyDur, err := fetch(client, legacyBase, ep)
	if err != nil {
		d.Err = fmt.Errorf("legacy request failed: %w", err)
		return d
	}
	defer legacyResp.Body.Close()

	d.PortLatency = portDur
	d.LegacyLatency = legacyDur
	d.PortStatus = portResp.StatusCode
	d.LegacyStatus = legacyResp.StatusCode
	d.StatusMatch = d.PortStatus == d.LegacyStatus

	portBody, err := io.ReadAll(portResp.Body)
	if err != nil {
		d.Err = fmt.Errorf("read port body: %w", err)
		return d
	}
	legacyBody, err := io.ReadAll(legacyResp.Body)
	if err != nil {
		d.Err = fmt.Errorf("read legacy body: %w", err)
		return d
	}
	d.BodyMatch = bodiesEqual(portBody, legacyBody)

	return d
}

func fetch(client *http.Client, base string, ep endpoint) (*http.Response, time.Duration, error) {
	method := strings.ToUpper(strings.TrimSpace(ep.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := ep.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+path, nil)
	if err != nil {
		return nil, 0, err
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	return resp, time.Since(start), nil
}

// bodiesEqual compares bytes first and falls back to normalized JSON, so
// whole-number floats and key ordering do not count as differences.
func bodiesEqual(a, b []byte) bool {
	if bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}

	var aj, bj interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	normalize(&aj)
	normalize(&bj)
	return reflect.DeepEqual(aj, bj)
}

func normalize(v *interface{}) {
	switch val := (*v).(type) {
	case map[string]interface{}:
		for k, v2 := range val {
			normalize(&v2)
			val[k] = v2
		}
	case []interface{}:
		for i, v2 := range val {
			normalize(&v2)
			val[i] = v2
		}
	case float64:
		if val == float64(int64(val)) {
			*v = int64(val)
		}
	}
}

func report(diffs []diff) {
	fmt.Println("Shadow Compare Report")
	fmt.Println("======================")
	for _, d := range diffs {
		status := "OK"
		if d.Err != nil {
			status = "ERROR"
		} else if !d.StatusMatch || !d.BodyMatch {
			status = "DIFF"
		}
		fmt.Printf("[%s] %s %s\n", status, d.Endpoint.Method, d.Endpoint.Path)
		if d.Err != nil {
			fmt.Printf("  Error: %v\n", d.Err)
			continue
		}
		fmt.Printf("  Port: %d (%s) | Legacy: %d (%s)\n", d.PortStatus, d.PortLatency, d.LegacyStatus, d.LegacyLatency)
		fmt.Printf("  Status match: %t | Body match: %t | Critical: %t\n", d.StatusMatch, d.BodyMatch, d.Endpoint.Critical)
	}
}
