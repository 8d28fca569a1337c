// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/johnmark127/r-kive-sub000/internal/container"
	"github.com/johnmark127/r-kive-sub000/internal/httputil"
	"github.com/johnmark127/r-kive-sub000/pkg/types"
)

func init() {
	// Keep 429 retry backoff out of test wall time.
	httputil.RetryBaseDelay = time.Millisecond
}

func serviceConfig(url string) types.ConversionConfig {
	return types.ConversionConfig{
		Backend:           types.BackendService,
		ServiceURL:        url,
		MinChars:          20,
		RequestsPerSecond: 1000, // don't throttle tests
	}
}

func TestServiceConverterSuccess(t *testing.T) {
	const want = "Extracted text that is comfortably long enough."
	var gotBody serviceRequest

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		json.NewEncoder(w).Encode(serviceResponse{Text: want})
	}))
	defer ts.Close()

	c, err := NewServiceConverter(ts.Client(), serviceConfig(ts.URL))
	if err != nil {
		t.Fatal(err)
	}

	got, err := c.Convert(context.Background(), "paper.pdf", []byte("%PDF-1.4 payload"))
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if got != want {
		t.Errorf("Convert() = %q, want %q", got, want)
	}

	if gotBody.Filename != "paper.pdf" {
		t.Errorf("request filename = %q, want %q", gotBody.Filename, "paper.pdf")
	}
	decoded, err := base64.StdEncoding.DecodeString(gotBody.Data)
	if err != nil || string(decoded) != "%PDF-1.4 payload" {
		t.Errorf("request data = %q (decode err %v), want original bytes", gotBody.Data, err)
	}
}

func TestServiceConverterShortResult(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(serviceResponse{Text: "too short"})
	}))
	defer ts.Close()

	c, err := NewServiceConverter(ts.Client(), serviceConfig(ts.URL))
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.Convert(context.Background(), "paper.pdf", []byte("x"))
	var short *ErrShortResult
	if !errors.As(err, &short) {
		t.Fatalf("Convert() error = %v, want ErrShortResult", err)
	}
	if short.Min != 20 {
		t.Errorf("ErrShortResult.Min = %d, want 20", short.Min)
	}
}

func TestServiceConverterErrorResponses(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "http error status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
		{
			name: "service-level error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				json.NewEncoder(w).Encode(serviceResponse{Error: "unsupported format"})
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				io.WriteString(w, "not json")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			c, err := NewServiceConverter(ts.Client(), serviceConfig(ts.URL))
			if err != nil {
				t.Fatal(err)
			}
			if _, err := c.Convert(context.Background(), "paper.pdf", []byte("x")); err == nil {
				t.Error("Convert() error = nil, want error")
			}
		})
	}
}

func TestServiceConverterRetriesRateLimit(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(serviceResponse{Text: strings.Repeat("text ", 10)})
	}))
	defer ts.Close()

	c, err := NewServiceConverter(ts.Client(), serviceConfig(ts.URL))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.Convert(context.Background(), "paper.pdf", []byte("x")); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("conversion endpoint called %d times, want 2", n)
	}
}

func TestNewServiceConverterRequiresURL(t *testing.T) {
	if _, err := NewServiceConverter(http.DefaultClient, types.ConversionConfig{}); err == nil {
		t.Error("NewServiceConverter() error = nil, want error for missing URL")
	}
}

// fakeRuntime implements container.Runtime for converter tests.
type fakeRuntime struct {
	output    string
	runErr    error
	imageErr  error
	lastImage string
}

func (f *fakeRuntime) Name() string    { return "fake" }
func (f *fakeRuntime) Available() bool { return true }

func (f *fakeRuntime) ImageExists(image string) error {
	f.lastImage = image
	return f.imageErr
}

func (f *fakeRuntime) Run(image string, stdin io.Reader, stdout io.Writer) error {
	if f.runErr != nil {
		return f.runErr
	}
	io.Copy(io.Discard, stdin)
	io.WriteString(stdout, f.output)
	return nil
}

var _ container.Runtime = (*fakeRuntime)(nil)

func TestContainerConverter(t *testing.T) {
	rt := &fakeRuntime{output: strings.Repeat("converted text ", 5)}
	c, err := NewContainerConverter(rt, types.ConversionConfig{MinChars: 20})
	if err != nil {
		t.Fatal(err)
	}

	got, err := c.Convert(context.Background(), "paper.pdf", []byte("%PDF"))
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if got != rt.output {
		t.Errorf("Convert() = %q, want %q", got, rt.output)
	}
}

func TestContainerConverterShortOutput(t *testing.T) {
	rt := &fakeRuntime{output: "tiny"}
	c, err := NewContainerConverter(rt, types.ConversionConfig{MinChars: 20})
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.Convert(context.Background(), "paper.pdf", []byte("%PDF"))
	var short *ErrShortResult
	if !errors.As(err, &short) {
		t.Fatalf("Convert() error = %v, want ErrShortResult", err)
	}
}

func TestNewContainerConverterMissingImage(t *testing.T) {
	rt := &fakeRuntime{imageErr: errors.New("no such image")}
	if _, err := NewContainerConverter(rt, types.ConversionConfig{}); err == nil {
		t.Error("NewContainerConverter() error = nil, want error")
	}
}
