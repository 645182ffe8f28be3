package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
)

// Input capture sources accepted by the recognition endpoint.
const (
	InputCanvas = "CANVAS"
	InputUpload = "UPLOAD"
	InputCamera = "CAMERA"
)

// RecognizeRequest is the body of POST /recognition/recognize. ImageData is
// a base64-encoded image; capture and preprocessing happen in the host app.
type RecognizeRequest struct {
	ImageData  string `json:"imageData"`
	InputType  string `json:"inputType,omitempty"`
	SessionID  string `json:"sessionId,omitempty"`
	ClientInfo string `json:"clientInfo,omitempty"`
}

// RecognizeResult is the recognition outcome: the predicted digit, the
// model's confidence, and whether the confidence was low enough that the
// backend suggests rewriting the input.
type RecognizeResult struct {
	RecordID       int64   `json:"recordId"`
	Digit          int     `json:"recognitionResult"`
	Confidence     float64 `json:"confidence"`
	ProcessingTime int     `json:"processingTime"`
	Message        string  `json:"message"`
	NeedRewrite    bool    `json:"needRewrite"`
}

// Page is the backend's uniform paged collection wrapper.
type Page[T any] struct {
	Records []T   `json:"records"`
	Total   int64 `json:"total"`
	Size    int64 `json:"size"`
	Current int64 `json:"current"`
	Pages   int64 `json:"pages"`
}

// HistoryRecord is one stored recognition record, kept raw except for the
// fields the clients list on screen.
type HistoryRecord struct {
	RecordID   int64           `json:"recordId"`
	Result     int             `json:"recognitionResult"`
	Confidence float64         `json:"confidence"`
	InputType  string          `json:"inputType"`
	CreateTime string          `json:"createTime"`
	Raw        json.RawMessage `json:"-"`
}

// FeedbackRequest reports a wrong or low-confidence recognition.
type FeedbackRequest struct {
	RecordID      int64  `json:"recordId"`
	CorrectResult int    `json:"correctResult"`
	FeedbackType  string `json:"feedbackType,omitempty"`
	Reason        string `json:"feedbackReason,omitempty"`
	QualityScore  int    `json:"qualityScore,omitempty"`
}

// Recognize calls POST /recognition/recognize.
func (c *Client) Recognize(ctx context.Context, req RecognizeRequest) (*RecognizeResult, error) {
	if req.InputType == "" {
		req.InputType = InputCanvas
	}
	var result RecognizeResult
	if err := c.http.Post(ctx, "/recognition/recognize", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// History calls GET /recognition/history with 1-based paging.
func (c *Client) History(ctx context.Context, current, size int64) (*Page[HistoryRecord], error) {
	if current < 1 {
		current = 1
	}
	if size < 1 {
		size = 10
	}
	query := url.Values{
		"current": []string{strconv.FormatInt(current, 10)},
		"size":    []string{strconv.FormatInt(size, 10)},
	}
	var page Page[HistoryRecord]
	if err := c.http.Get(ctx, "/recognition/history", query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SubmitFeedback calls POST /feedback.
func (c *Client) SubmitFeedback(ctx context.Context, req FeedbackRequest) error {
	return c.http.Post(ctx, "/feedback", req, nil)
}
