package prompts

// PromptID identifies a specific prompt template.
type PromptID string

// Prompt identifiers for all LLM prompts in pagesmith.
const (
	// SiteCreate builds the instruction for the initial generation round.
	SiteCreate PromptID = "site/create"

	// SiteRevise builds the instruction for the revision round.
	SiteRevise PromptID = "site/revise"
)

// AttachmentRef describes a supporting file referenced by a brief.
type AttachmentRef struct {
	// Name is the display name of the attachment.
	Name string
	// MediaType is the declared media type for inline attachments.
	MediaType string
	// URL is either a data URI or a remote HTTP(S) URL.
	URL string
	// Inline reports whether the content is embedded as a data URI.
	Inline bool
}

// SiteCreateData contains input data for the initial generation prompt.
type SiteCreateData struct {
	// Brief is the natural-language description of the application.
	Brief string
	// Checks are the evaluation requirements the page must satisfy.
	Checks []string
	// Attachments are supporting files referenced by the brief.
	Attachments []AttachmentRef
}

// SiteReviseData contains input data for the revision prompt.
type SiteReviseData struct {
	// Brief is the natural-language description of the requested changes.
	Brief string
	// Checks are the evaluation requirements the revised page must satisfy.
	Checks []string
	// Attachments are supporting files referenced by the brief.
	Attachments []AttachmentRef
	// ExistingHTML is the currently published page to revise.
	ExistingHTML string
}
