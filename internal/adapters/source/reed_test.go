package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Goutamchandnani/UniHustle/internal/domain/model"
)

const reedFixture = `{
  "results": [
    {"jobId": 101, "employerName": "Bean Co", "jobTitle": "Weekend Barista", "locationName": "London",
     "minimumSalary": 11.5, "maximumSalary": 12.5, "currency": "GBP", "date": "03/02/2026",
     "jobDescription": "Friendly cafe, weekend shifts available", "jobUrl": "https://www.reed.co.uk/jobs/101"},
    {"jobId": 102, "employerName": "Shop Ltd", "jobTitle": "Retail Assistant", "locationName": "Croydon",
     "minimumSalary": 21000, "maximumSalary": null, "date": "not a date", "jobDescription": "Tills"}
  ],
  "totalResults": 2
}`

func reedServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestReedSource_FetchSendsAuthAndDedupes(t *testing.T) {
	var calls atomic.Int32
	srv := reedServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "secret", user)
		assert.Equal(t, "", pass)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Leeds", r.URL.Query().Get("locationName"))
		assert.Equal(t, "5", r.URL.Query().Get("distanceFromLocation"))
		assert.NotEmpty(t, r.URL.Query().Get("keywords"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reedFixture))
	})

	s := NewReedSource("secret", WithBaseURL(srv.URL+"/"), WithSearchArea("Leeds", 5))
	raws, err := s.Fetch(context.Background(), []string{"barista", "retail"})
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load())
	require.Len(t, raws, 2)
	assert.Equal(t, "101", raws[0].ExternalID)
	assert.Equal(t, ReedName, raws[0].Source)
}

func TestReedSource_FetchBadStatus(t *testing.T) {
	srv := reedServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	s := NewReedSource("bad", WithBaseURL(srv.URL))
	_, err := s.Fetch(context.Background(), []string{"barista"})
	assert.ErrorIs(t, err, ErrBadStatus)
}

func TestReedSource_FetchPartialFailure(t *testing.T) {
	srv := reedServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("keywords") == "broken" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(reedFixture))
	})

	s := NewReedSource("k", WithBaseURL(srv.URL))
	raws, err := s.Fetch(context.Background(), []string{"broken", "barista"})
	require.NoError(t, err)
	assert.Len(t, raws, 2)
}

func TestReedSource_Normalize(t *testing.T) {
	fixed := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	s := NewReedSource("k", WithNow(func() time.Time { return fixed }))

	var body reedSearchResponse
	require.NoError(t, json.Unmarshal([]byte(reedFixture), &body))

	barista, err := s.Normalize(RawJob{Source: ReedName, ExternalID: "101", Payload: body.Results[0]})
	require.NoError(t, err)
	assert.Equal(t, "reed-101", barista.ID)
	assert.Equal(t, "Weekend Barista", barista.Title)
	assert.Equal(t, "Bean Co", barista.Company)
	assert.Equal(t, "London", barista.LocationName())
	assert.Equal(t, model.SalaryHourly, barista.SalaryType)
	require.NotNil(t, barista.SalaryMin)
	assert.InDelta(t, 11.5, *barista.SalaryMin, 1e-9)
	assert.Equal(t, time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC), barista.PostedAt)
	assert.Len(t, barista.Shifts, 2)
	assert.False(t, barista.IsRemote)

	retail, err := s.Normalize(RawJob{Source: ReedName, ExternalID: "102", Payload: body.Results[1]})
	require.NoError(t, err)
	assert.Equal(t, model.SalaryYearly, retail.SalaryType)
	assert.Nil(t, retail.SalaryMax)
	assert.Equal(t, fixed, retail.PostedAt)
	assert.Empty(t, retail.Shifts)
}

func TestReedSource_NormalizeRejectsBadPayload(t *testing.T) {
	s := NewReedSource("k")

	_, err := s.Normalize(RawJob{Payload: json.RawMessage(`{"jobId": 0}`)})
	assert.ErrorIs(t, err, ErrInvalidJob)

	_, err = s.Normalize(RawJob{Payload: json.RawMessage(`not json`)})
	assert.ErrorIs(t, err, ErrInvalidJob)
}

func TestReedSource_RemoteDetection(t *testing.T) {
	s := NewReedSource("k")
	job, err := s.Normalize(RawJob{Payload: json.RawMessage(
		`{"jobId": 7, "jobTitle": "Online Tutor (Remote)", "locationName": "London"}`)})
	require.NoError(t, err)
	assert.True(t, job.IsRemote)
	assert.Equal(t, "", job.SalaryType)
}
