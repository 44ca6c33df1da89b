// Package httpclient wraps resty with the cookie-jar persistence the
// Forum session model needs: one client per Forum user, its jar
// loaded from disk when the client is built and saved back by
// SaveCookies.
package httpclient

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/lornews/lord/internal/config"
)

// Client is a per-user Forum HTTP client.
type Client struct {
	rc      *resty.Client
	jar     *memoryJar
	baseURL string
	userDir string
}

// New builds a Client for the user whose session state lives under
// userDir (normally config.GatewayConfig.UserDir(nick)). The cookie jar
// is loaded from <userDir>/cookies if present; a missing file is not an
// error, just an empty jar.
//
// The jar is a single-host in-memory map rather than net/http's
// cookiejar.Jar: Jar.Cookies strips every attribute except name and
// value, and the poster needs each cookie's expiry to decide whether to
// re-login and to persist the jar across runs.
func New(userDir string, timeout time.Duration) (*Client, error) {
	jar := newMemoryJar()

	c := &Client{
		rc:      resty.New(),
		jar:     jar,
		baseURL: config.ForumBaseURL,
		userDir: userDir,
	}
	c.rc.SetCookieJar(jar)
	c.rc.SetTimeout(timeout)
	c.rc.SetHeader("User-Agent", fmt.Sprintf("lord-gateway/%s (+lorpull|lorpost)", config.AppVersion))

	if err := c.LoadCookies(); err != nil {
		return nil, err
	}
	return c, nil
}

// GET issues a GET against path (relative to the Forum base URL) and
// returns the response.
func (c *Client) GET(path string) (*resty.Response, error) {
	resp, err := c.rc.R().Get(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	return resp, nil
}

// PostForm submits a form POST to path with the given fields, used for
// both topic and comment submission.
func (c *Client) PostForm(path string, fields map[string]string) (*resty.Response, error) {
	resp, err := c.rc.R().SetFormData(fields).Post(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", path, err)
	}
	return resp, nil
}

// PostFormWithFile is PostForm plus a single file field, used for
// X-Image-Path uploads.
func (c *Client) PostFormWithFile(path string, fields map[string]string, fileField, fileName string, fileBody []byte) (*resty.Response, error) {
	resp, err := c.rc.R().
		SetFormData(fields).
		SetFileReader(fileField, fileName, newByteReader(fileBody)).
		Post(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", path, err)
	}
	return resp, nil
}

// CookiesExpiringWithin reports whether any cookie currently held for the
// Forum host expires within d, per the poster's re-login heuristic.
func (c *Client) CookiesExpiringWithin(d time.Duration) bool {
	threshold := time.Now().Add(d)
	for _, ck := range c.jar.all() {
		if ck.Expires.IsZero() {
			continue
		}
		if ck.Expires.Before(threshold) {
			return true
		}
	}
	return false
}

// SetCookies installs cookies for the Forum host, used after a successful
// login response.
func (c *Client) SetCookies(cookies []*http.Cookie) error {
	c.jar.SetCookies(nil, cookies)
	return nil
}

// CookieValue returns the value of the named cookie currently held for
// the Forum host, used to read JSESSIONID into the poster's "session"
// form field.
func (c *Client) CookieValue(name string) (string, bool) {
	ck, ok := c.jar.get(name)
	if !ok {
		return "", false
	}
	return ck.Value, true
}
