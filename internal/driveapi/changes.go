package driveapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// GetStartPageToken fetches the continuation token marking "now" in the
// remote change feed. A fresh crawl should call this before enumerating
// files so a subsequent sync never misses changes that land mid-crawl.
func (c *Client) GetStartPageToken(ctx context.Context) (string, error) {
	resp, err := c.do(ctx, "GET", "/changes/startPageToken", nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out struct {
		StartPageToken string `json:"startPageToken"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decoding startPageToken response: %s", ErrRemote, err)
	}

	return out.StartPageToken, nil
}

type wireChange struct {
	FileID  string          `json:"fileId"`
	Removed bool            `json:"removed"`
	File    json.RawMessage `json:"file"`
}

type changesListResponse struct {
	Changes           []wireChange `json:"changes"`
	NextPageToken     string       `json:"nextPageToken"`
	NewStartPageToken string       `json:"newStartPageToken"`
}

// ChangesPage is one page of the change feed: the decoded changes, the token
// for the next page (empty when this is the last page), and the
// newStartPageToken that the server returns alongside the last page. Callers
// persist NewStartPageToken only after every change up to and including this
// page has been applied.
type ChangesPage struct {
	Changes           []Change
	NextPageToken     string
	NewStartPageToken string
}

// ListChangesPage fetches one page of the change feed starting from
// pageToken (normally the previously persisted continuation token).
func (c *Client) ListChangesPage(ctx context.Context, pageToken string, pageSize int) (*ChangesPage, error) {
	q := url.Values{}
	q.Set("pageToken", pageToken)
	q.Set("pageSize", fmt.Sprintf("%d", pageSize))
	q.Set("fields", "changes(fileId,removed,file("+fullFieldList+")),nextPageToken,newStartPageToken")
	q.Set("spaces", "drive")
	q.Set("includeRemoved", "true")

	resp, err := c.do(ctx, "GET", "/changes?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out changesListResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decoding changes.list response: %s", ErrRemote, err)
	}

	page := &ChangesPage{
		NextPageToken:     out.NextPageToken,
		NewStartPageToken: out.NewStartPageToken,
	}

	for _, wc := range out.Changes {
		ch := Change{FileID: wc.FileID, Removed: wc.Removed}

		if !wc.Removed && len(wc.File) > 0 {
			f, err := normalizeFile(wc.File)
			if err != nil {
				return nil, err
			}

			ch.File = f
		}

		page.Changes = append(page.Changes, ch)
	}

	return page, nil
}
