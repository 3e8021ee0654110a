// README: Ops CLI; triggers auction sweeps and manual route closings over the admin API.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

type opsConfig struct {
	BaseURL string
	Timeout time.Duration
}

func main() {
	var (
		baseURL = flag.String("base-url", envOrDefault("BACKHAUL_API_BASE_URL", "http://localhost:8080"), "API base URL")
		timeout = flag.Duration("timeout", 60*time.Second, "request timeout")
		sweep   = flag.Bool("sweep", false, "trigger an auction sweep now")
		closeID = flag.String("close", "", "manually close the auction for this route id")
	)
	flag.Parse()

	if !*sweep && *closeID == "" {
		fmt.Fprintln(os.Stderr, "usage: backhaul-ops [-sweep] [-close <route-id>]")
		os.Exit(2)
	}

	cfg := opsConfig{BaseURL: strings.TrimRight(*baseURL, "/"), Timeout: *timeout}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if *sweep {
		if err := post(ctx, cfg, "/api/admin/auction/sweep"); err != nil {
			fmt.Fprintf(os.Stderr, "sweep failed: %v\n", err)
			os.Exit(1)
		}
	}
	if *closeID != "" {
		if err := post(ctx, cfg, "/api/admin/routes/"+*closeID+"/close"); err != nil {
			fmt.Fprintf(os.Stderr, "close failed: %v\n", err)
			os.Exit(1)
		}
	}
}

func post(ctx context.Context, cfg opsConfig, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.BaseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var pretty map[string]any
	if err := json.Unmarshal(body, &pretty); err == nil {
		out, _ := json.MarshalIndent(pretty, "", "  ")
		fmt.Println(string(out))
	} else {
		fmt.Println(strings.TrimSpace(string(body)))
	}
	return nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
