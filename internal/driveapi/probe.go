package driveapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

// HasChangedSince issues a minimal-projection, single-result files.list
// query filtered to modifiedTime after since, trashed files excluded. It
// answers "has anything changed since this timestamp" without paging
// through the full listing — the cheap remote probe the cache coordinator
// uses as a TTL alternative for primary-snapshot validity.
func (c *Client) HasChangedSince(ctx context.Context, since time.Time) (bool, error) {
	q := url.Values{}
	q.Set("fields", ProjectionMinimal.fields())
	q.Set("pageSize", "1")
	q.Set("spaces", "drive")
	q.Set("q", fmt.Sprintf("trashed = false and modifiedTime > '%s'", since.UTC().Format(time.RFC3339)))

	resp, err := c.do(ctx, "GET", "/files?"+q.Encode(), nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	var out filesListResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("%w: decoding files.list probe response: %s", ErrRemote, err)
	}

	return len(out.Files) > 0, nil
}
