// Package catalog fetches and caches the remote channel directory.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// Channel is one entry of the remote directory.
type Channel struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Genre       string `json:"genre"`
	Image       string `json:"image"`
	StreamURL   string `json:"stream_url"`
}

type directory struct {
	Channels []Channel `json:"channels"`
}

// Client fetches the channel directory, keeping an on-disk copy so the
// tuner still works when the catalog host is down.
type Client struct {
	baseURL  string
	cacheDir string
	ttl      time.Duration
	http     *http.Client
}

func NewClient(baseURL, cacheDir string, ttl time.Duration) *Client {
	return &Client{
		baseURL:  baseURL,
		cacheDir: cacheDir,
		ttl:      ttl,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) cachePath() string {
	return filepath.Join(c.cacheDir, "channels.json")
}

// Channels returns the channel directory, from cache when it is fresh
// enough, otherwise over HTTP. A fetch failure falls back to a stale cache
// rather than failing outright.
func (c *Client) Channels(ctx context.Context) ([]Channel, error) {
	if chans, ok := c.fromCache(c.ttl); ok {
		return chans, nil
	}

	chans, err := c.fetch(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("catalog fetch failed, trying stale cache")
		if chans, ok := c.fromCache(0); ok {
			return chans, nil
		}
		return nil, err
	}

	c.toCache(chans)
	return chans, nil
}

// fromCache loads the cached directory. maxAge == 0 accepts any age.
func (c *Client) fromCache(maxAge time.Duration) ([]Channel, bool) {
	path := c.cachePath()

	if maxAge > 0 {
		info, err := os.Stat(path)
		if err != nil || time.Since(info.ModTime()) > maxAge {
			return nil, false
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var dir directory
	if err := json.Unmarshal(data, &dir); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("corrupt catalog cache")
		return nil, false
	}
	return dir.Channels, true
}

func (c *Client) toCache(chans []Channel) {
	data, err := json.Marshal(directory{Channels: chans})
	if err != nil {
		return
	}
	if err := os.MkdirAll(c.cacheDir, 0755); err != nil {
		log.Warn().Err(err).Msg("could not create cache dir")
		return
	}
	tmp := c.cachePath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err == nil {
		_ = os.Rename(tmp, c.cachePath())
	}
}

func (c *Client) fetch(ctx context.Context) ([]Channel, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned %s", resp.Status)
	}

	var dir directory
	if err := json.NewDecoder(resp.Body).Decode(&dir); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(dir.Channels) == 0 {
		return nil, errors.New("catalog is empty")
	}
	return dir.Channels, nil
}

// Icon downloads a channel's image into the cache and returns its path,
// for the desktop notifier and the in-terminal artwork. Best effort: any
// failure just means no icon.
func (c *Client) Icon(ctx context.Context, ch Channel) (string, error) {
	if ch.Image == "" {
		return "", errors.New("channel has no image")
	}

	dest := filepath.Join(c.cacheDir, "icons", ch.ID+iconExt(ch.Image))
	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ch.Image, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch icon: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("icon returned %s", resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", err
	}
	f, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(dest)
		return "", err
	}
	return dest, nil
}

// iconExt pulls the file extension out of an image URL, leaving any query
// string behind so cached icon filenames stay sane.
func iconExt(image string) string {
	if u, err := url.Parse(image); err == nil {
		return path.Ext(u.Path)
	}
	return filepath.Ext(image)
}
