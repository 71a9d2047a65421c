package driveapi

import (
	"context"
	"encoding/json"
	"fmt"
)

type wireAbout struct {
	StorageQuota struct {
		Limit string `json:"limit"`
		Usage string `json:"usage"`
	} `json:"storageQuota"`
	User struct {
		DisplayName  string `json:"displayName"`
		EmailAddress string `json:"emailAddress"`
	} `json:"user"`
}

// About fetches account-level storage quota and identity, used by the
// overview operation and by health checks that report account-wide stats.
func (c *Client) About(ctx context.Context) (*AccountOverview, error) {
	resp, err := c.do(ctx, "GET", "/about?fields="+"storageQuota,user", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var wa wireAbout
	if err := json.NewDecoder(resp.Body).Decode(&wa); err != nil {
		return nil, fmt.Errorf("%w: decoding about response: %s", ErrRemote, err)
	}

	overview := &AccountOverview{
		User: AccountUser{
			DisplayName:  wa.User.DisplayName,
			EmailAddress: wa.User.EmailAddress,
		},
	}

	fmt.Sscanf(wa.StorageQuota.Limit, "%d", &overview.StorageQuota.Limit)
	fmt.Sscanf(wa.StorageQuota.Usage, "%d", &overview.StorageQuota.Usage)

	return overview, nil
}
