package domain

// CompletionNotice is the JSON payload POSTed to the evaluation server
// after a round completes. Field names follow the evaluation protocol.
type CompletionNotice struct {
	// Email echoes the requester's email from the deploy request.
	Email string `json:"email"`

	// Task echoes the task identifier.
	Task string `json:"task"`

	// Round echoes the processed round number.
	Round int `json:"round"`

	// Nonce echoes the opaque nonce from the deploy request.
	Nonce string `json:"nonce"`

	// RepoURL is the browser URL of the published repository.
	RepoURL string `json:"repo_url"`

	// CommitSHA is the head commit of the default branch.
	CommitSHA string `json:"commit_sha"`

	// PagesURL is the static-hosting URL of the published site.
	PagesURL string `json:"pages_url"`
}

// NoticeFor builds the completion notice for a finished round.
func NoticeFor(req *DeployRequest, result *PublishResult) *CompletionNotice {
	return &CompletionNotice{
		Email:     req.Email,
		Task:      req.Task,
		Round:     req.Round,
		Nonce:     req.Nonce,
		RepoURL:   result.RepoURL,
		CommitSHA: result.CommitSHA,
		PagesURL:  result.PagesURL,
	}
}
