package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	pendingHeader  = "X-Dhpsi-Pending"
	maxBodyBytes   = 64 << 20
	defaultTimeout = 30 * time.Second
)

// #############################################################################

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{&http.Client{}, timeout}
}

// do performs one round trip under its own deadline. Transport failures,
// timeouts and non-2xx answers are network errors; an undecodable body is a
// data error.
func (c *Client) do(ctx context.Context, method, target string, in, out interface{}) (http.Header, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return nil, dataError(err, "encoding request for %s", target)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, networkError(err, "building request for %s", target)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, networkError(err, "%s %s", method, target)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		if json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&eb) == nil && eb.Error != nil {
			return nil, networkError(nil, "%s %s: %s (%s)", method, target, resp.Status, eb.Error.Reason)
		}
		return nil, networkError(nil, "%s %s: %s", method, target, resp.Status)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		if ctx.Err() != nil {
			return nil, networkError(ctx.Err(), "%s %s", method, target)
		}
		return nil, dataError(err, "decoding response from %s", target)
	}
	return resp.Header, nil
}

// #############################################################################

func (c *Client) FetchBlinded(ctx context.Context, peer string) ([]WireItem, error) {
	var items []WireItem
	_, err := c.do(ctx, http.MethodGet, baseURL(peer)+"/psi/blinded", nil, &items)
	return items, err
}

func (c *Client) ReExponentiate(ctx context.Context, peer string, items []WireItem) ([]WireItem, error) {
	var out []WireItem
	_, err := c.do(ctx, http.MethodPost, baseURL(peer)+"/psi/reexponentiate", items, &out)
	return out, err
}

func (c *Client) PreparePeer(ctx context.Context, peer, session string) (Ack, error) {
	var ack Ack
	_, err := c.do(ctx, http.MethodPost, baseURL(peer)+"/psi/relay/prepare", PrepareRequest{session}, &ack)
	return ack, err
}

func (c *Client) Run(ctx context.Context, participant, mode string) (*IntersectionResult, error) {
	target := baseURL(participant) + "/psi/run"
	if mode != "" {
		target += "?mode=" + url.QueryEscape(mode)
	}
	var res IntersectionResult
	_, err := c.do(ctx, http.MethodPost, target, nil, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// #############################################################################

func (c *Client) Upload(ctx context.Context, relay, session, label string, items []WireItem) (Ack, error) {
	var ack Ack
	_, err := c.do(ctx, http.MethodPost, baseURL(relay)+"/relay/upload", UploadRequest{session, label, items}, &ack)
	return ack, err
}

// FetchProcessed asks the relay for a processed set. pending reports that
// the relay has not received the needed upload yet.
func (c *Client) FetchProcessed(ctx context.Context, relay, session, label string, which Which) (items []WireItem, pending bool, err error) {
	q := url.Values{}
	q.Set("sessionId", session)
	q.Set("participantLabel", label)
	q.Set("which", string(which))

	hdr, err := c.do(ctx, http.MethodGet, baseURL(relay)+"/relay/processed?"+q.Encode(), nil, &items)
	if err != nil {
		return nil, false, err
	}
	return items, hdr.Get(pendingHeader) != "", nil
}
