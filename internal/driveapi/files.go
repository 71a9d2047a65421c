package driveapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
)

// wireFile is the JSON shape returned by the remote files.list / files.get
// endpoints. Decoded then normalized into File.
type wireFile struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	MimeType        string           `json:"mimeType"`
	Trashed         bool             `json:"trashed"`
	CreatedTime     string           `json:"createdTime"`
	ModifiedTime    string           `json:"modifiedTime"`
	Size            string           `json:"size"`
	MD5Checksum     string           `json:"md5Checksum"`
	OwnedByMe       bool             `json:"ownedByMe"`
	Owners          []Owner          `json:"owners"`
	Capabilities    map[string]any   `json:"capabilities"`
	ShortcutDetails *ShortcutDetails `json:"shortcutDetails"`
	Starred         bool             `json:"starred"`
	WebViewLink     string           `json:"webViewLink"`
	IconLink        string           `json:"iconLink"`
	Parents         []string         `json:"parents"`
}

func normalizeFile(raw json.RawMessage) (*File, error) {
	var wf wireFile
	if err := json.Unmarshal(raw, &wf); err != nil {
		return nil, fmt.Errorf("decoding file payload: %w", err)
	}

	f := &File{
		ID:              wf.ID,
		Name:            wf.Name,
		MimeType:        wf.MimeType,
		Trashed:         wf.Trashed,
		CreatedTime:     wf.CreatedTime,
		ModifiedTime:    wf.ModifiedTime,
		MD5Checksum:     wf.MD5Checksum,
		OwnedByMe:       wf.OwnedByMe,
		Owners:          wf.Owners,
		Capabilities:    wf.Capabilities,
		ShortcutDetails: wf.ShortcutDetails,
		Starred:         wf.Starred,
		WebViewLink:     wf.WebViewLink,
		IconLink:        wf.IconLink,
		Parents:         wf.Parents,
		RawJSON:         append([]byte(nil), raw...),
	}

	if wf.Size != "" {
		var size int64
		if _, err := fmt.Sscanf(wf.Size, "%d", &size); err == nil {
			f.Size = &size
		}
	}

	return f, nil
}

type filesListResponse struct {
	Files         []json.RawMessage `json:"files"`
	NextPageToken string             `json:"nextPageToken"`
}

// ListFilesPage fetches one page of the files.list endpoint using pageToken
// (empty for the first page) and the given page size. Returns the decoded
// files for this page plus the token for the next page, which is empty when
// this was the last page.
func (c *Client) ListFilesPage(ctx context.Context, pageToken string, pageSize int, proj Projection) ([]*File, string, error) {
	q := url.Values{}
	q.Set("fields", proj.fields())
	q.Set("pageSize", fmt.Sprintf("%d", pageSize))
	q.Set("q", "trashed = false")
	q.Set("spaces", "drive")

	if pageToken != "" {
		q.Set("pageToken", pageToken)
	}

	resp, err := c.do(ctx, "GET", "/files?"+q.Encode(), nil)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	var out filesListResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, "", fmt.Errorf("%w: decoding files.list response: %s", ErrRemote, err)
	}

	files := make([]*File, 0, len(out.Files))

	for _, raw := range out.Files {
		f, err := normalizeFile(raw)
		if err != nil {
			return nil, "", err
		}

		files = append(files, f)
	}

	return files, out.NextPageToken, nil
}

// GetFile fetches a single file's full metadata by ID, used to resolve
// shortcut targets and to spot-check cache validity in ProjectionMinimal
// mode.
func (c *Client) GetFile(ctx context.Context, id string, proj Projection) (*File, error) {
	q := url.Values{}
	q.Set("fields", fieldsWithoutListWrapper(proj))

	resp, err := c.do(ctx, "GET", "/files/"+url.PathEscape(id)+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading files.get response: %s", ErrRemote, err)
	}

	return normalizeFile(raw)
}

func fieldsWithoutListWrapper(p Projection) string {
	if p == ProjectionMinimal {
		return "id,modifiedTime"
	}

	return fullFieldList
}
