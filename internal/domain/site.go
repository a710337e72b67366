package domain

// SiteBundle holds the text files synthesized by the LLM for one round.
// License is empty on revision rounds, where only the application code
// and README are regenerated.
type SiteBundle struct {
	// HTML is the complete, self-contained index.html content.
	HTML string

	// Readme is the README.md content.
	Readme string

	// License is the full MIT license text. Populated on the create
	// round only.
	License string
}

// HasLicense returns true when the bundle carries a license file to commit.
func (b *SiteBundle) HasLicense() bool {
	return b.License != ""
}

// PublishResult describes the published state of a repository after a
// round completes.
type PublishResult struct {
	// RepoURL is the browser URL of the repository.
	RepoURL string

	// CommitSHA is the head commit of the default branch after publishing.
	CommitSHA string

	// PagesURL is the static-hosting URL of the published site.
	PagesURL string
}
