package sqldump

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// maxRemoteSize caps dumps fetched over HTTP.
const maxRemoteSize = 64 * 1024 * 1024

var gzipMagic = []byte{0x1f, 0x8b}

// Load reads a dump from a local path or an http(s) URL. Gzip-compressed
// content is decompressed transparently. A nil client uses http.DefaultClient.
func Load(ctx context.Context, location string, client *http.Client) (string, error) {
	if location == "" {
		return "", fmt.Errorf("dump location must be non-empty")
	}

	var r io.Reader
	remote := false
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		body, err := fetch(ctx, location, client)
		if err != nil {
			return "", err
		}
		defer body.Close()
		r = io.LimitReader(body, maxRemoteSize+1)
		remote = true
	} else {
		f, err := os.Open(location)
		if err != nil {
			return "", fmt.Errorf("open dump: %w", err)
		}
		defer f.Close()
		r = f
	}

	br := bufio.NewReader(r)
	head, _ := br.Peek(len(gzipMagic))
	var src io.Reader = br
	if bytes.Equal(head, gzipMagic) {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return "", fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		src = gz
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("read dump: %w", err)
	}
	if remote && !bytes.Equal(head, gzipMagic) && len(data) > maxRemoteSize {
		return "", fmt.Errorf("dump exceeded maximum size limit of %d bytes", maxRemoteSize)
	}
	return string(data), nil
}

func fetch(ctx context.Context, url string, client *http.Client) (io.ReadCloser, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "trigdict-cli")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download dump: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download failed: %s", resp.Status)
	}
	if resp.ContentLength > maxRemoteSize {
		resp.Body.Close()
		return nil, fmt.Errorf("content-length %d exceeds limit of %d bytes", resp.ContentLength, maxRemoteSize)
	}
	return resp.Body, nil
}
