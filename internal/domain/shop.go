package domain

import "time"

// ShopRecord is the stored OAuth grant for a single store. There is one live
// token per domain; a reinstall overwrites the previous record.
type ShopRecord struct {
	Domain      string    `json:"domain"`
	AccessToken string    `json:"access_token"`
	InstalledAt time.Time `json:"installed_at"`
}
