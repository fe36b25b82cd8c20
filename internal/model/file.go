package model

// FileRef points at a file hosted by the media provider.
type FileRef struct {
	URL        string `json:"url"`
	ProviderID string `json:"provider_id,omitempty"`
	Filename   string `json:"filename,omitempty"`
	Kind       string `json:"kind"` // image | video | raw
}
