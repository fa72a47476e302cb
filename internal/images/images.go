// Package images downloads stock photography for a business document from
// the Unsplash search API.
package images

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultGalleryCount = 6
	maxConcurrent       = 4
)

// Job is one image to fetch.
type Job struct {
	Name  string // file name, e.g. acme-hero.jpg
	Query string
}

// Report lists what a fetch did. Failures are warnings; a missing image never
// fails the run.
type Report struct {
	mu       sync.Mutex
	Saved    []string `json:"saved"`
	Skipped  []string `json:"skipped"`
	Warnings []string `json:"warnings"`
}

func (r *Report) saved(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Saved = append(r.Saved, name)
}

func (r *Report) skipped(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Skipped = append(r.Skipped, name)
}

func (r *Report) warn(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

type Fetcher struct {
	client    *http.Client
	apiURL    string
	accessKey string
	fs        afero.Fs
	logger    *zap.Logger
}

func NewFetcher(client *http.Client, apiURL, accessKey string, fs afero.Fs, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		client:    client,
		apiURL:    apiURL,
		accessKey: accessKey,
		fs:        fs,
		logger:    logger.Named("images"),
	}
}

// Jobs derives the hero and gallery downloads for doc. Files are named after
// brand.slug, falling back to clientSlug.
func Jobs(doc map[string]any, clientSlug string) []Job {
	slug := str(dig(doc, "brand", "slug"))
	if slug == "" {
		slug = clientSlug
	}

	heroQuery := firstNonEmpty(str(dig(doc, "hero", "image", "image_search_query")), str(dig(doc, "hero", "headline")), "professional landscape")
	jobs := []Job{{Name: slug + "-hero.jpg", Query: heroQuery}}

	if show, ok := dig(doc, "strategy", "show_gallery").(bool); ok && !show {
		return jobs
	}
	gallery, _ := doc["gallery"].(map[string]any)
	items, _ := gallery["items"].([]any)
	count := len(items)
	if n, ok := gallery["computed_count"].(float64); ok && n > 0 {
		count = int(n)
	}
	if count == 0 {
		count = defaultGalleryCount
	}
	globalQuery := firstNonEmpty(str(dig(gallery, "image_source", "image_search_query")), str(dig(doc, "intelligence", "industry")), "service")

	for i := 0; i < count; i++ {
		var item map[string]any
		if i < len(items) {
			item, _ = items[i].(map[string]any)
		}
		q := firstNonEmpty(str(item["image_search_query"]), str(item["title"]), globalQuery)
		jobs = append(jobs, Job{Name: fmt.Sprintf("%s-project-%d.jpg", slug, i), Query: q + " landscape"})
	}
	return jobs
}

// Fetch downloads every job into dir, skipping files that already exist.
// Without an access key the whole step is skipped with a warning.
func (f *Fetcher) Fetch(ctx context.Context, jobs []Job, dir string) (*Report, error) {
	report := &Report{}
	if f.accessKey == "" {
		f.logger.Warn("UNSPLASH_ACCESS_KEY not set, skipping image download")
		report.warn("UNSPLASH_ACCESS_KEY not set, image download skipped")
		return report, nil
	}
	if err := f.fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			dest := filepath.Join(dir, job.Name)
			if exists, _ := afero.Exists(f.fs, dest); exists {
				f.logger.Debug("Image exists, skipping", zap.String("file", job.Name))
				report.skipped(job.Name)
				return nil
			}
			if err := f.fetchOne(ctx, job, dest); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				f.logger.Warn("Image fetch failed", zap.String("file", job.Name), zap.String("query", job.Query), zap.Error(err))
				report.warn("%s: %v", job.Name, err)
				return nil
			}
			f.logger.Info("Image saved", zap.String("file", job.Name))
			report.saved(job.Name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, fmt.Errorf("image fetch: %w", err)
	}
	return report, nil
}

type searchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

// errNoResults marks a search that matched nothing.
var errNoResults = errors.New("no results")

func (f *Fetcher) fetchOne(ctx context.Context, job Job, dest string) error {
	q := url.Values{}
	q.Set("query", job.Query)
	q.Set("orientation", "landscape")
	q.Set("per_page", "1")
	q.Set("page", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.apiURL+"/search/photos?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+f.accessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("search returned %s", resp.Status)
	}
	var found searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&found); err != nil {
		return fmt.Errorf("decode search response: %w", err)
	}
	if len(found.Results) == 0 || found.Results[0].URLs.Regular == "" {
		return fmt.Errorf("%w for %q", errNoResults, job.Query)
	}
	return f.download(ctx, found.Results[0].URLs.Regular, dest)
}

func (f *Fetcher) download(ctx context.Context, src, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return fmt.Errorf("build download request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download returned %s", resp.Status)
	}

	// Write to a temporary name so an interrupted download never leaves a
	// file the next run would skip.
	tmp := dest + ".part"
	out, err := f.fs.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		_ = f.fs.Remove(tmp)
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := out.Close(); err != nil {
		_ = f.fs.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	return f.fs.Rename(tmp, dest)
}

func dig(v any, keys ...string) any {
	for _, k := range keys {
		m, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		v = m[k]
	}
	return v
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
