package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/papercomputeco/prepdeck/pkg/sse"
)

// StreamHandler receives the outcome of a streaming knowledge-base query.
// Any nil field is skipped.
//
// For a given stream, OnMessage is invoked synchronously and in order for
// every non-empty data payload, then exactly one of OnComplete or OnError
// fires. Once OnError has fired nothing else is invoked for that stream.
type StreamHandler struct {
	OnMessage  func(chunk string)
	OnComplete func()
	OnError    func(err error)
}

// QueryStream asks a question against the given knowledge bases and streams
// the answer through h as it is produced.
//
// The terminal outcome is reported both through the handler and as the
// return value: nil after OnComplete, the surfaced error after OnError.
// Cancellation is the caller's concern via ctx; the client enforces no
// timeout of its own on the stream.
func (c *Client) QueryStream(ctx context.Context, kbIDs []int64, question string, h StreamHandler) error {
	if err := c.streamQuery(ctx, kbIDs, question, h); err != nil {
		if h.OnError != nil {
			h.OnError(err)
		}
		return err
	}

	if h.OnComplete != nil {
		h.OnComplete()
	}
	return nil
}

// streamQuery opens the stream and drives the decode loop. Returning nil
// means the stream ended cleanly and every payload was delivered.
func (c *Client) streamQuery(ctx context.Context, kbIDs []int64, question string, h StreamHandler) error {
	payload, err := json.Marshal(QueryRequest{KnowledgeBaseIDs: kbIDs, Question: question})
	if err != nil {
		return fmt.Errorf("marshaling query: %w", err)
	}

	url := c.target + "/api/knowledgebase/query/stream"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating stream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("X-Request-ID", uuid.NewString())

	c.logger.Debug("opening query stream",
		"knowledge_bases", len(kbIDs),
		"question_len", len(question),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("opening stream: %w", err)
	}
	defer func() {
		if resp.Body != nil {
			resp.Body.Close()
		}
	}()

	// Status is checked before any chunk is read.
	if !statusOK(resp.StatusCode) {
		return readAPIError(resp)
	}
	if resp.Body == nil {
		return ErrNoBody
	}

	dec := sse.NewDecoder(resp.Body)
	for {
		chunk, err := dec.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading stream: %w", err)
		}

		if h.OnMessage != nil {
			h.OnMessage(chunk)
		}
	}
}
