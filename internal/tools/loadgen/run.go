package loadgen

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Options drive a synthetic traffic run against a deployed instance.
type Options struct {
	BaseURL     string
	Profile     string
	Requests    int
	Concurrency int
	Timeout     time.Duration
}

type Report struct {
	Total    int
	Errors   int
	ByClass  map[string]int
	Duration time.Duration
}

// NewCommand exposes the generator as a `loadgen` subcommand.
func NewCommand() *cobra.Command {
	opts := Options{}
	cmd := &cobra.Command{
		Use:   "loadgen",
		Short: "Generate synthetic traffic against a running instance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := Run(cmd.Context(), opts)
			if err != nil {
				return err
			}
			cmd.Printf("sent %d requests in %s (%d errors)\n", report.Total, report.Duration.Round(time.Millisecond), report.Errors)
			for class, count := range report.ByClass {
				cmd.Printf("  %s: %d\n", class, count)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.BaseURL, "base-url", "http://localhost:8080", "target base URL")
	cmd.Flags().StringVar(&opts.Profile, "profile", "mixed", "traffic profile: auth, wardrobe or mixed")
	cmd.Flags().IntVar(&opts.Requests, "requests", 100, "total number of requests")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 8, "concurrent workers")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 10*time.Second, "per-request timeout")
	return cmd
}

func Run(ctx context.Context, opts Options) (*Report, error) {
	profile := normalizeProfile(opts.Profile)
	targets, ok := profileTargets[profile]
	if !ok {
		return nil, fmt.Errorf("unknown profile %q", profile)
	}
	if opts.Requests <= 0 {
		return nil, fmt.Errorf("requests must be positive")
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}

	client := &http.Client{
		Timeout: opts.Timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	var mu sync.Mutex
	report := &Report{ByClass: map[string]int{}}
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i := 0; i < opts.Requests; i++ {
		target := targets[i%len(targets)]
		g.Go(func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSuffix(opts.BaseURL, "/")+target, nil)
			if err != nil {
				return err
			}
			resp, err := client.Do(req)
			mu.Lock()
			defer mu.Unlock()
			report.Total++
			if err != nil {
				report.Errors++
				return nil
			}
			resp.Body.Close()
			report.ByClass[classifyStatusClass(resp.StatusCode)]++
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	report.Duration = time.Since(start)
	return report, nil
}

var profileTargets = map[string][]string{
	"auth":     {"/api/auth/me", "/health/live"},
	"wardrobe": {"/api/wardrobe", "/api/style-profile", "/health/live"},
	"mixed":    {"/api/auth/me", "/api/wardrobe", "/api/style-profile", "/", "/health/live"},
}

func normalizeProfile(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	if p == "" {
		return "mixed"
	}
	return p
}

func classifyStatusClass(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	default:
		return "other"
	}
}
