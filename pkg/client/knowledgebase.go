package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// KnowledgeBase is a named collection of uploaded reference documents that
// queries can be grounded against.
type KnowledgeBase struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	DocumentCount int       `json:"documentCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// KnowledgeBasesResponse wraps the knowledge-base list endpoint payload.
type KnowledgeBasesResponse struct {
	KnowledgeBases []KnowledgeBase `json:"knowledgeBases"`
}

// CreateKnowledgeBaseRequest is the body for creating a knowledge base.
type CreateKnowledgeBaseRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// QueryRequest is the body for both the plain and streaming query endpoints.
type QueryRequest struct {
	KnowledgeBaseIDs []int64 `json:"knowledgeBaseIds"`
	Question         string  `json:"question"`
}

// QueryResponse wraps the non-streaming query endpoint payload.
type QueryResponse struct {
	Answer string `json:"answer"`
}

// UploadResponse wraps the document upload endpoint payload.
type UploadResponse struct {
	DocumentID int64  `json:"documentId"`
	Filename   string `json:"filename"`
}

// ListKnowledgeBases returns all knowledge bases.
func (c *Client) ListKnowledgeBases(ctx context.Context) ([]KnowledgeBase, error) {
	var resp KnowledgeBasesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/knowledgebase", nil, &resp); err != nil {
		return nil, fmt.Errorf("listing knowledge bases: %w", err)
	}
	return resp.KnowledgeBases, nil
}

// CreateKnowledgeBase creates an empty knowledge base.
func (c *Client) CreateKnowledgeBase(ctx context.Context, name, description string) (*KnowledgeBase, error) {
	req := CreateKnowledgeBaseRequest{Name: name, Description: description}

	var kb KnowledgeBase
	if err := c.doJSON(ctx, http.MethodPost, "/api/knowledgebase", req, &kb); err != nil {
		return nil, fmt.Errorf("creating knowledge base: %w", err)
	}
	return &kb, nil
}

// DeleteKnowledgeBase removes a knowledge base and its documents.
func (c *Client) DeleteKnowledgeBase(ctx context.Context, id int64) error {
	if err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/knowledgebase/%d", id), nil, nil); err != nil {
		return fmt.Errorf("deleting knowledge base %d: %w", id, err)
	}
	return nil
}

// UploadDocument uploads a reference document into a knowledge base as a
// multipart form with a single "file" field.
func (c *Client) UploadDocument(ctx context.Context, kbID int64, filename string, r io.Reader) (*UploadResponse, error) {
	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)

	// Stream the multipart body so large documents never buffer in full.
	go func() {
		part, err := form.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, r); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(form.Close())
	}()

	url := fmt.Sprintf("%s/api/knowledgebase/%d/documents", c.target, kbID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, pr)
	if err != nil {
		return nil, fmt.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("uploading document: %w", err)
	}
	defer resp.Body.Close()

	if !statusOK(resp.StatusCode) {
		return nil, readAPIError(resp)
	}

	var uploaded UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return nil, fmt.Errorf("decoding upload response: %w", err)
	}
	return &uploaded, nil
}

// Query asks a question against the given knowledge bases and waits for the
// complete answer.
func (c *Client) Query(ctx context.Context, kbIDs []int64, question string) (string, error) {
	req := QueryRequest{KnowledgeBaseIDs: kbIDs, Question: question}

	var resp QueryResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/knowledgebase/query", req, &resp); err != nil {
		return "", fmt.Errorf("querying knowledge base: %w", err)
	}
	return resp.Answer, nil
}
