package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/loykin/toolhub/internal/config"
)

// APIClient talks to a running toolhub daemon.
type APIClient struct {
	baseURL string
	client  *http.Client
}

func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	if baseURL == "" {
		baseURL = "http://" + config.DefaultListen + config.DefaultBasePath
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &APIClient{baseURL: baseURL, client: &http.Client{Timeout: timeout}}
}

// IsReachable reports whether the daemon answers on the status endpoint.
func (c *APIClient) IsReachable() bool {
	resp, err := c.client.Get(c.baseURL + "/status")
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusOK
}

func (c *APIClient) StartTool(tool, hotkeyChord string) error {
	body := map[string]string{"tool": tool}
	if hotkeyChord != "" {
		body["hotkey"] = hotkeyChord
	}
	return c.postJSON("/start", body, nil)
}

func (c *APIClient) StopTool(tool string) error {
	return c.postJSON("/stop", map[string]string{"tool": tool}, nil)
}

func (c *APIClient) StopAll() error {
	return c.postJSON("/stop-all", nil, nil)
}

func (c *APIClient) GetStatus(tool string) (any, error) {
	u := c.baseURL + "/status"
	if tool != "" {
		u += "?tool=" + url.QueryEscape(tool)
	}
	return c.getJSON(u)
}

func (c *APIClient) Scan() (any, error) {
	var out any
	if err := c.postJSON("/scan", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) ListHotkeys(tool string) (any, error) {
	u := c.baseURL + "/hotkeys"
	if tool != "" {
		u += "?tool=" + url.QueryEscape(tool)
	}
	return c.getJSON(u)
}

func (c *APIClient) RegisterHotkey(tool, action, chord string) error {
	return c.postJSON("/hotkeys", map[string]string{"tool": tool, "action": action, "chord": chord}, nil)
}

func (c *APIClient) UnregisterHotkey(tool, chord string) error {
	u := c.baseURL + "/hotkeys?tool=" + url.QueryEscape(tool)
	if chord != "" {
		u += "&chord=" + url.QueryEscape(chord)
	}
	req, err := http.NewRequest(http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	return checkAPIError(resp)
}

func (c *APIClient) postJSON(path string, body any, out any) error {
	var rdr *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(data)
	} else {
		rdr = bytes.NewReader(nil)
	}
	resp, err := c.client.Post(c.baseURL+path, "application/json", rdr)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if err := checkAPIError(resp); err != nil {
		return err
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *APIClient) getJSON(u string) (any, error) {
	resp, err := c.client.Get(u)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if err := checkAPIError(resp); err != nil {
		return nil, err
	}
	var out any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func checkAPIError(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	var errorResp struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errorResp); err != nil {
		return fmt.Errorf("API error: status %d", resp.StatusCode)
	}
	return fmt.Errorf("API error: %s", errorResp.Error)
}
