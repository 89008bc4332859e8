// Package api is the client for the authoritative show server. Reads decode
// the server's {isValid, data} envelope; writes are fire-and-forget. Neither
// path surfaces network failures to callers: a failed read reports "no new
// value" so the caller retains what it has, and a failed write is logged and
// dropped. The editing experience never blocks on network health.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/decode-detroit/minerva-sub000/internal/item"
)

const requestTimeout = 10 * time.Second

// Client issues requests against one server base URL, e.g.
// "http://localhost:64637".
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a client for the given base URL. A trailing slash on the
// base is tolerated.
func NewClient(base string) *Client {
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	return &Client{
		base: base,
		http: &http.Client{Timeout: requestTimeout},
	}
}

// envelope is the server's uniform reply wrapper. isValid false means the
// request was understood but has no useful answer; it is treated exactly
// like a transport failure.
type envelope struct {
	IsValid bool            `json:"isValid"`
	Data    json.RawMessage `json:"data"`
}

// get fetches path and decodes the envelope's data into dst. The bool result
// reports whether dst now holds a fresh value; on false the caller keeps its
// previous state.
func (c *Client) get(path string, dst any) bool {
	resp, err := c.http.Get(c.base + "/" + path)
	if err != nil {
		log.Printf("api: get %s: %v", path, err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("api: get %s: status %d", path, resp.StatusCode)
		return false
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		log.Printf("api: get %s: decode: %v", path, err)
		return false
	}
	if !env.IsValid {
		return false
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		log.Printf("api: get %s: data: %v", path, err)
		return false
	}
	return true
}

// post sends body as JSON to path. The reply body, if any, is drained and
// discarded: no write is acknowledged.
func (c *Client) post(path string, body any) {
	payload, err := json.Marshal(body)
	if err != nil {
		log.Printf("api: post %s: marshal: %v", path, err)
		return
	}
	resp, err := c.http.Post(c.base+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Printf("api: post %s: %v", path, err)
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

// GetItem fetches an item's description and layout hint.
func (c *Client) GetItem(id item.ID) (item.Pair, bool) {
	var pair item.Pair
	ok := c.get(fmt.Sprintf("getItem/%d", id), &pair)
	return pair, ok
}

// GetType fetches an item's resolved type.
func (c *Client) GetType(id item.ID) (item.Type, bool) {
	var t item.Type
	ok := c.get(fmt.Sprintf("getType/%d", id), &t)
	return t, ok
}

// GetStatus fetches a status payload.
func (c *Client) GetStatus(id item.ID) (item.Status, bool) {
	var s item.Status
	ok := c.get(fmt.Sprintf("getStatus/%d", id), &s)
	return s, ok
}

// GetEvent fetches an event's action list.
func (c *Client) GetEvent(id item.ID) (item.Event, bool) {
	var e item.Event
	ok := c.get(fmt.Sprintf("getEvent/%d", id), &e)
	return e, ok
}

// GetScene fetches a scene's member list.
func (c *Client) GetScene(id item.ID) (item.Scene, bool) {
	var s item.Scene
	ok := c.get(fmt.Sprintf("getScene/%d", id), &s)
	return s, ok
}

// GetGroup fetches a group payload.
func (c *Client) GetGroup(id item.ID) (item.Group, bool) {
	var g item.Group
	ok := c.get(fmt.Sprintf("getGroup/%d", id), &g)
	return g, ok
}

// AllItems fetches every item pair the server knows.
func (c *Client) AllItems() ([]item.Pair, bool) {
	var pairs []item.Pair
	ok := c.get("allItems", &pairs)
	return pairs, ok
}

// AllScenes fetches the pair of every scene.
func (c *Client) AllScenes() ([]item.Pair, bool) {
	var pairs []item.Pair
	ok := c.get("allScenes", &pairs)
	return pairs, ok
}

// GetConfigParam fetches the server's configuration parameters.
func (c *Client) GetConfigParam() (map[string]string, bool) {
	var params map[string]string
	ok := c.get("getConfigParam", &params)
	return params, ok
}

// GetConfigPath fetches the path of the loaded configuration file.
func (c *Client) GetConfigPath() (string, bool) {
	var path string
	ok := c.get("getConfigPath", &path)
	return path, ok
}

type editRequest struct {
	Modifications item.Batch `json:"modifications"`
}

// Edit sends a modification batch. Fire-and-forget.
func (c *Client) Edit(batch item.Batch) {
	if len(batch) == 0 {
		return
	}
	c.post("/edit", editRequest{Modifications: batch})
}

type saveStylesRequest struct {
	NewStyles map[string]string `json:"newStyles"`
}

// SaveStyles mirrors selector-to-rule pairs to the server for durability
// across reloads.
func (c *Client) SaveStyles(styles map[string]string) {
	if len(styles) == 0 {
		return
	}
	c.post("/saveStyles", saveStylesRequest{NewStyles: styles})
}

type filenameRequest struct {
	Filename string `json:"filename"`
}

// SaveConfig asks the server to save its configuration under filename.
func (c *Client) SaveConfig(filename string) {
	c.post("/saveConfig", filenameRequest{Filename: filename})
}

// ConfigFile asks the server to load the named configuration file.
func (c *Client) ConfigFile(filename string) {
	c.post("/configFile", filenameRequest{Filename: filename})
}

// Close asks the server to shut the program down.
func (c *Client) Close() {
	c.post("/close", struct{}{})
}

type cueEventRequest struct {
	ID    item.ID `json:"id"`
	Secs  uint64  `json:"secs"`
	Nanos uint32  `json:"nanos"`
}

// CueEvent cues an event after the given delay.
func (c *Client) CueEvent(id item.ID, delay item.Delay) {
	c.post("/cueEvent", cueEventRequest{ID: id, Secs: delay.Secs, Nanos: delay.Nanos})
}

type sceneChangeRequest struct {
	SceneID item.ID `json:"sceneId"`
}

// SceneChange asks the server to switch to the given scene.
func (c *Client) SceneChange(sceneID item.ID) {
	c.post("/sceneChange", sceneChangeRequest{SceneID: sceneID})
}
