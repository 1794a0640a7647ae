package model

// PrivacyStatus is the platform visibility state of a video.
type PrivacyStatus string

const (
	PrivacyPrivate  PrivacyStatus = "private"
	PrivacyUnlisted PrivacyStatus = "unlisted"
	PrivacyPublic   PrivacyStatus = "public"
)

// VideoStatus mirrors the status block of a YouTube video resource.
type VideoStatus struct {
	ID                      string        `json:"id"`
	PrivacyStatus           PrivacyStatus `json:"privacyStatus"`
	MadeForKids             bool          `json:"madeForKids"`
	SelfDeclaredMadeForKids bool          `json:"selfDeclaredMadeForKids"`
}

// IsPrivate reports whether the video is currently private.
func (s VideoStatus) IsPrivate() bool {
	return s.PrivacyStatus == PrivacyPrivate
}

// UnlistedStatus returns the status payload sent for a private video: unlisted
// and not made for kids. Every other status field is left to the service.
func UnlistedStatus(videoID string) VideoStatus {
	return VideoStatus{
		ID:                      videoID,
		PrivacyStatus:           PrivacyUnlisted,
		MadeForKids:             false,
		SelfDeclaredMadeForKids: false,
	}
}

// VideoPage is one page of the account's own videos.
type VideoPage struct {
	VideoIDs []string `json:"videoIds"`
	// NextPageToken is empty on the last page.
	NextPageToken string `json:"nextPageToken,omitempty"`
}

// HasNext reports whether another page can be requested.
func (p *VideoPage) HasNext() bool {
	return p != nil && p.NextPageToken != ""
}

// UnlistResult summarises a remediation run.
type UnlistResult struct {
	Pages     int  `json:"pages"`
	Inspected int  `json:"inspected"`
	Updated   int  `json:"updated"`
	DryRun    bool `json:"dryRun"`
}
