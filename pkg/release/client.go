package release

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/shipgatedev/shipgate/internal/log"
	"github.com/shipgatedev/shipgate/pkg/semver"
)

var ErrAPI = errors.New("release host API failure")

// Release is the release host's record for one tag.
type Release struct {
	ID      int64  `json:"id"`
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
	HTMLURL string `json:"html_url"`
}

type PublishResult struct {
	ReleaseID int64
	AssetName string
	// Existing is true when the release was already present and reused.
	Existing bool
}

// Client talks to a GitHub style release API. It needs exactly three calls:
// create release, fetch release by tag, upload a named binary asset.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient builds a client for the repository's API root, e.g.
// "https://api.github.com/repos/owner/name". The http.Client is injected so
// tests can point at a local server.
func NewClient(baseURL string, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, token: token, client: httpClient}
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAPI, err)
	}
	return res, nil
}

// apiError drains the body so the status and response text both reach the
// operator; publish failures must be diagnosable without a second request.
func apiError(op string, res *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	return fmt.Errorf("%w: %s: status %d: %s", ErrAPI, op, res.StatusCode, bytes.TrimSpace(body))
}

// CreateRelease creates the release record for tag. A conflict means the
// release already exists; it is fetched and reused so retried publishes are
// idempotent.
func (c *Client) CreateRelease(ctx context.Context, tag semver.Tag) (*Release, bool, error) {
	payload, _ := json.Marshal(map[string]string{
		"tag_name": tag.String(),
		"name":     tag.String(),
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/releases", bytes.NewReader(payload))
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrAPI, err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.do(req)
	if err != nil {
		return nil, false, err
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusCreated:
		release := new(Release)
		if err := json.NewDecoder(res.Body).Decode(release); err != nil {
			return nil, false, fmt.Errorf("%w: decoding create response: %v", ErrAPI, err)
		}
		return release, false, nil
	case res.StatusCode == http.StatusUnprocessableEntity || res.StatusCode == http.StatusConflict:
		log.Infof("release %s already exists, reusing it", tag)
		release, err := c.GetReleaseByTag(ctx, tag)
		if err != nil {
			return nil, false, err
		}
		return release, true, nil
	default:
		return nil, false, apiError("create release", res)
	}
}

func (c *Client) GetReleaseByTag(ctx context.Context, tag semver.Tag) (*Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/releases/tags/"+tag.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAPI, err)
	}
	res, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, apiError("fetch release by tag", res)
	}
	release := new(Release)
	if err := json.NewDecoder(res.Body).Decode(release); err != nil {
		return nil, fmt.Errorf("%w: decoding release: %v", ErrAPI, err)
	}
	return release, nil
}

// UploadAsset uploads the file as a named binary asset of the release. Any
// non-success status is a hard failure of the whole release.
func (c *Client) UploadAsset(ctx context.Context, releaseID int64, name string, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: opening asset %s: %v", ErrAPI, path, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAPI, err)
	}

	url := fmt.Sprintf("%s/releases/%d/assets?name=%s", c.baseURL, releaseID, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, f)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAPI, err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.ContentLength = info.Size()

	res, err := c.do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return apiError("upload asset", res)
	}
	log.Infof("uploaded asset %s to release %d", name, releaseID)
	return nil
}

// Publish creates or reuses the release for the artifact set's tag and
// uploads the staged binary as its asset.
func (c *Client) Publish(ctx context.Context, set ArtifactSet) (PublishResult, error) {
	release, existing, err := c.CreateRelease(ctx, set.Tag)
	if err != nil {
		return PublishResult{}, err
	}
	name := filepath.Base(set.BinaryPath)
	if err := c.UploadAsset(ctx, release.ID, name, set.BinaryPath); err != nil {
		return PublishResult{}, err
	}
	return PublishResult{ReleaseID: release.ID, AssetName: name, Existing: existing}, nil
}
