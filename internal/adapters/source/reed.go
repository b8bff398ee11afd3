package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Goutamchandnani/UniHustle/internal/domain/model"
	"github.com/Goutamchandnani/UniHustle/pkg/logger"
)

const (
	// ReedName is the registry name of the Reed source.
	ReedName = "reed"

	defaultReedURL      = "https://www.reed.co.uk/api/1.0"
	defaultReedLocation = "London"
	defaultReedDistance = 15
	reedDateLayout      = "02/01/2006"
	userAgent           = "unihustle-matcher"

	// Reed publishes annual and hourly figures in the same fields; anything at
	// or above this is taken as annual.
	yearlySalaryFloor = 1000
)

// ReedSource searches the Reed.co.uk jobs API for part-time postings.
type ReedSource struct {
	apiKey     string
	baseURL    string
	location   string
	distance   int
	httpClient *http.Client
	now        func() time.Time
	logger     logger.Logger
}

// ReedOption configures a ReedSource.
type ReedOption func(*ReedSource)

// WithBaseURL points the source at another API root.
func WithBaseURL(u string) ReedOption {
	return func(s *ReedSource) {
		if u != "" {
			s.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) ReedOption {
	return func(s *ReedSource) {
		if c != nil {
			s.httpClient = c
		}
	}
}

// WithSearchArea sets the location name and radius in miles used by searches.
func WithSearchArea(location string, distanceMiles int) ReedOption {
	return func(s *ReedSource) {
		if location != "" {
			s.location = location
		}
		if distanceMiles > 0 {
			s.distance = distanceMiles
		}
	}
}

// WithNow overrides the clock used when a posting has no usable date.
func WithNow(now func() time.Time) ReedOption {
	return func(s *ReedSource) {
		if now != nil {
			s.now = now
		}
	}
}

// NewReedSource creates a Reed source authenticating with apiKey.
func NewReedSource(apiKey string, opts ...ReedOption) *ReedSource {
	s := &ReedSource{
		apiKey:     apiKey,
		baseURL:    defaultReedURL,
		location:   defaultReedLocation,
		distance:   defaultReedDistance,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
		logger:     logger.Get().Named("reed"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements Source.
func (s *ReedSource) Name() string { return ReedName }

type reedSearchResponse struct {
	Results           []json.RawMessage `json:"results"`
	TotalResults      int               `json:"totalResults"`
	AmbiguousLocation bool              `json:"ambiguousLocationName"`
}

type reedJob struct {
	JobID          int64    `json:"jobId"`
	EmployerName   string   `json:"employerName"`
	JobTitle       string   `json:"jobTitle"`
	LocationName   string   `json:"locationName"`
	MinimumSalary  *float64 `json:"minimumSalary"`
	MaximumSalary  *float64 `json:"maximumSalary"`
	Currency       string   `json:"currency"`
	Date           string   `json:"date"`
	JobDescription string   `json:"jobDescription"`
	JobURL         string   `json:"jobUrl"`
}

// Fetch runs one search per keyword. A failed keyword is logged and skipped;
// Fetch only fails when every keyword failed.
func (s *ReedSource) Fetch(ctx context.Context, keywords []string) ([]RawJob, error) {
	var (
		out     []RawJob
		seen    = make(map[string]struct{})
		lastErr error
		okCount int
	)

	for _, kw := range keywords {
		results, err := s.search(ctx, kw)
		if err != nil {
			lastErr = err
			s.logger.Warn(ctx, "reed search failed", logger.String("keyword", kw), logger.Error(err))
			continue
		}
		okCount++

		added := 0
		for _, payload := range results {
			var head struct {
				JobID int64 `json:"jobId"`
			}
			if err := json.Unmarshal(payload, &head); err != nil || head.JobID == 0 {
				continue
			}
			id := strconv.FormatInt(head.JobID, 10)
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, RawJob{Source: ReedName, ExternalID: id, Payload: payload})
			added++
		}
		s.logger.Debug(ctx, "reed search", logger.String("keyword", kw), logger.Int("new_jobs", added))
	}

	if okCount == 0 && lastErr != nil {
		return nil, lastErr
	}
	return out, nil
}

func (s *ReedSource) search(ctx context.Context, keyword string) ([]json.RawMessage, error) {
	q := url.Values{}
	q.Set("keywords", keyword)
	q.Set("locationName", s.location)
	q.Set("distanceFromLocation", strconv.Itoa(s.distance))
	q.Set("partTime", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/search", nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = q.Encode()
	req.SetBasicAuth(s.apiKey, "")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrBadStatus, resp.Status)
	}

	var body reedSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode reed response: %w", err)
	}
	return body.Results, nil
}

// Normalize implements Source.
func (s *ReedSource) Normalize(raw RawJob) (model.JobData, error) {
	var r reedJob
	if err := json.Unmarshal(raw.Payload, &r); err != nil {
		return model.JobData{}, fmt.Errorf("%w: %w", ErrInvalidJob, err)
	}
	if r.JobID == 0 || strings.TrimSpace(r.JobTitle) == "" {
		return model.JobData{}, fmt.Errorf("%w: missing id or title", ErrInvalidJob)
	}

	externalID := strconv.FormatInt(r.JobID, 10)
	job := model.JobData{
		ID:          ReedName + "-" + externalID,
		Title:       strings.TrimSpace(r.JobTitle),
		Company:     strings.TrimSpace(r.EmployerName),
		Description: r.JobDescription,
		IsRemote:    isRemote(r.LocationName, r.JobTitle),
		Shifts:      ExtractShifts(r.JobDescription),
		SalaryMin:   positive(r.MinimumSalary),
		SalaryMax:   positive(r.MaximumSalary),
		Source:      ReedName,
		ExternalID:  externalID,
		ExternalURL: r.JobURL,
		PostedAt:    s.parseDate(r.Date),
	}
	if loc := strings.TrimSpace(r.LocationName); loc != "" {
		job.Location = &model.JobLocation{Name: loc}
	}
	job.SalaryType = salaryType(job.SalaryMin, job.SalaryMax)
	return job, nil
}

func (s *ReedSource) parseDate(v string) time.Time {
	if t, err := time.Parse(reedDateLayout, strings.TrimSpace(v)); err == nil {
		return t.UTC()
	}
	return s.now().UTC()
}

func positive(v *float64) *float64 {
	if v == nil || *v <= 0 {
		return nil
	}
	return model.Float64(*v)
}

func salaryType(minimum, maximum *float64) string {
	ref := minimum
	if ref == nil {
		ref = maximum
	}
	if ref == nil {
		return ""
	}
	if *ref >= yearlySalaryFloor {
		return model.SalaryYearly
	}
	return model.SalaryHourly
}

func isRemote(fields ...string) bool {
	for _, f := range fields {
		f = strings.ToLower(f)
		if strings.Contains(f, "remote") || strings.Contains(f, "work from home") || strings.Contains(f, "home based") {
			return true
		}
	}
	return false
}
