// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package rest implements remote.Client against a PostgREST table endpoint,
// such as the one Supabase exposes under /rest/v1.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/danielhkuo/tripboard/models"
	"github.com/danielhkuo/tripboard/remote"
)

var _ remote.Client = (*Client)(nil)

var (
	ErrMissingCredentials = errors.New("supabase URL and anon key are required")
	ErrNoRows             = errors.New("participant listing returned no rows")
)

const selectColumns = "id,name,selected_date,grocery_list"

// Client talks to {baseURL}/rest/v1/{table}.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

// New returns a client for table. httpClient may be nil.
func New(baseURL, apiKey, table string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" || strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingCredentials
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse supabase URL: %w", err)
	}
	if table == "" {
		table = "participants"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint: baseURL + "/rest/v1/" + url.PathEscape(table),
		apiKey:   apiKey,
		http:     httpClient,
	}, nil
}

// ListParticipants fetches the whole table.
func (c *Client) ListParticipants(ctx context.Context) ([]models.ParticipantRecord, error) {
	q := url.Values{}
	q.Set("select", selectColumns)
	q.Set("order", "id")

	req, err := c.newRequest(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	// A JSON null leaves records nil; an empty table decodes to []
	var records []models.ParticipantRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode participants: %w", err)
	}
	if records == nil {
		return nil, ErrNoRows
	}
	return records, nil
}

// UpdateParticipant sends a PATCH filtered by id. The updated row is
// requested back only to detect a missing id.
func (c *Client) UpdateParticipant(ctx context.Context, id string, patch models.ParticipantPatch) error {
	if err := remote.ValidatePatch(patch); err != nil {
		return err
	}
	body, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("encode patch: %w", err)
	}

	q := url.Values{}
	q.Set("id", "eq."+id)
	q.Set("select", "id")

	req, err := c.newRequest(ctx, http.MethodPatch, c.endpoint+"?"+q.Encode(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("update participant %s: %w", id, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("update participant %s: %w", id, err)
	}

	var updated []struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		return fmt.Errorf("decode update response: %w", err)
	}
	if len(updated) == 0 {
		return remote.ErrNotFound
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// StatusError is a non-2xx response from the REST endpoint.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote returned %d", e.StatusCode)
	}
	return fmt.Sprintf("remote returned %d: %s", e.StatusCode, e.Message)
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	// PostgREST errors carry a "message" field
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var body struct {
		Message string `json:"message"`
	}
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &body) == nil && body.Message != "" {
		msg = body.Message
	}
	return &StatusError{StatusCode: resp.StatusCode, Message: msg}
}
