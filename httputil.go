package folio

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/bfonseca/folio/date"
)

// http utils to deal with remote quote services.

// diskCache is a http.RoundTripper that caches successful responses on disk.
// Cache keys include the current day, so entries expire daily; the quote
// cache and the event log are the only durable state of a run.
type diskCache struct {
	base http.RoundTripper
	dir  string
}

func (c *diskCache) path(req *http.Request) string {
	key := fmt.Sprintf("%s %s %s", date.Today(), req.Method, req.URL.String())
	return filepath.Join(c.dir, fmt.Sprintf("%x", sha1.Sum([]byte(key))))
}

func (c *diskCache) RoundTrip(req *http.Request) (*http.Response, error) {
	file := c.path(req)
	if content, err := os.ReadFile(file); err == nil {
		return http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req)
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v%v %v", req.Method, req.URL.Host, req.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}

	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return resp, nil
	}
	// Atomic write: a killed run never leaves a truncated cache entry.
	if err := atomic.WriteFile(file, bytes.NewReader(content)); err != nil {
		log.Printf("cache write err (ignored): %v", err)
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req)
}

// cachingClient returns an HTTP client whose responses are cached in dir with
// daily expiry. An empty dir falls back to the system temp directory.
func cachingClient(dir string) *http.Client {
	if dir == "" {
		dir = os.TempDir()
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("cannot create cache dir %q (ignored): %v", dir, err)
		dir = os.TempDir()
	}
	return &http.Client{Transport: &diskCache{base: http.DefaultTransport, dir: dir}}
}

// jwget performs an HTTP GET and unmarshals the JSON response into data.
func jwget(client *http.Client, addr string, data any) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return ErrQuoteNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return err
	}
	return json.Unmarshal(buf.Bytes(), data)
}
