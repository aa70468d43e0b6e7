package transfer

type PostCreation struct {
	Platform     string   `json:"platform"`
	Caption      string   `json:"caption"`
	Hashtags     []string `json:"hashtags"`
	MediaURL     string   `json:"media_url"`
	PageID       string   `json:"page_id"`
	ScheduledFor string   `json:"scheduled_for"`
}
