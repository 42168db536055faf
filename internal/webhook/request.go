package webhook

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/spigell/cv-matcher/internal/candidate"
	"github.com/spigell/cv-matcher/internal/utils"
	"go.uber.org/zap"
)

const (
	contentTypeJSON = "application/json"
	acceptEncoding  = "gzip"
)

var (
	// ErrNotJSON is returned when a successful response is not declared as JSON.
	ErrNotJSON = errors.New("server did not return JSON, check the webhook configuration")
	// ErrMalformedJSON is returned when a JSON response cannot be decoded.
	ErrMalformedJSON = errors.New("server returned malformed JSON")
)

// ServerError is returned for non-success HTTP statuses.
type ServerError struct {
	StatusCode int
	// Body holds at most the first 100 characters of the response body.
	Body string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Body)
}

func buildForm(file *candidate.File) (io.Reader, string, error) {
	src, err := file.Reader()
	if err != nil {
		return nil, "", err
	}
	defer src.Close()

	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, FormField, file.Name))
	header.Set("Content-Type", file.MediaType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}

	if _, err = io.Copy(part, src); err != nil {
		return nil, "", err
	}

	if err = w.Close(); err != nil {
		return nil, "", err
	}

	return &b, w.FormDataContentType(), nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.Redacted()))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("Accept-Encoding", acceptEncoding)

	if c.Auth != nil && c.Auth.Header != "" {
		req.Header.Set(c.Auth.Header, c.Auth.Value)
	}

	return req
}

func (c *Client) parseResponse(resp *http.Response) (any, error) {
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read gzip response: %w", err)
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("got response from webhook",
		zap.Int("status", resp.StatusCode),
		zap.String("content_type", resp.Header.Get("Content-Type")),
		zap.Int("response_length", len(data)),
		zap.String("response_preview", utils.TruncateForLog(string(data), maxLogLength)),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &ServerError{
			StatusCode: resp.StatusCode,
			Body:       utils.Excerpt(string(data), bodyExcerptLen),
		}
	}

	if !strings.Contains(resp.Header.Get("Content-Type"), contentTypeJSON) {
		return nil, ErrNotJSON
	}

	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	return payload, nil
}
