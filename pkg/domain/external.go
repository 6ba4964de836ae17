package domain

// ExternalSource identifies the upstream a feed item came from
type ExternalSource string

// external sources
const (
	SourceGitHub  ExternalSource = "github"
	SourceYouTube ExternalSource = "youtube"
)

// ExternalItem is a normalized third-party content record merged into the
// inspiration feed. Transient, lives only in the aggregate cache.
type ExternalItem struct {
	Source      ExternalSource `json:"source"`
	ExternalID  string         `json:"id"`
	Title       string         `json:"title"`
	Author      string         `json:"author"`
	URL         string         `json:"url"`
	Thumbnail   string         `json:"thumbnail"`
	Stats       string         `json:"stats"`
	Description string         `json:"description"`
}
