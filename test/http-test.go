package test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
)

type RoundTripFunc func(req *http.Request) *http.Response

func (r RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return r(req), nil }

func NewTestServer(mux http.Handler) *http.Client {
	return &http.Client{
		Transport: RoundTripFunc(func(req *http.Request) *http.Response {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			return rec.Result()
		}),
	}
}

// StaticFiles serves each body at its URL and 404 for anything else. The
// returned counter records how many requests reached the client.
func StaticFiles(files map[string][]byte) (*http.Client, *atomic.Int64) {
	hits := new(atomic.Int64)
	return &http.Client{
		Transport: RoundTripFunc(func(req *http.Request) *http.Response {
			hits.Add(1)
			rec := httptest.NewRecorder()
			body, ok := files[req.URL.String()]
			if !ok {
				rec.WriteHeader(http.StatusNotFound)
				return rec.Result()
			}
			rec.WriteHeader(http.StatusOK)
			_, _ = rec.Write(body)
			return rec.Result()
		}),
	}, hits
}
