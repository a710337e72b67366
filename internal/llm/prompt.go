package llm

import (
	"github.com/mrz1836/pagesmith/internal/domain"
	"github.com/mrz1836/pagesmith/internal/prompts"
)

// BuildPrompt renders the chat prompt for the request, selecting the
// create or revise template based on whether existing HTML is present.
// The fenced blocks the templates demand (html, markdown, text) are the
// contract the parser depends on; do not loosen the template wording
// without updating parse.go.
func BuildPrompt(req *Request) string {
	refs := attachmentRefs(req.Attachments)

	if req.IsRevision() {
		return prompts.MustRender(prompts.SiteRevise, prompts.SiteReviseData{
			Brief:        req.Brief,
			Checks:       req.Checks,
			Attachments:  refs,
			ExistingHTML: req.ExistingHTML,
		})
	}

	return prompts.MustRender(prompts.SiteCreate, prompts.SiteCreateData{
		Brief:       req.Brief,
		Checks:      req.Checks,
		Attachments: refs,
	})
}

// attachmentRefs converts request attachments into prompt references.
// Inline data URIs are passed through whole so the model can decode and
// use their content; remote attachments are referenced by URL.
func attachmentRefs(attachments []domain.Attachment) []prompts.AttachmentRef {
	if len(attachments) == 0 {
		return nil
	}

	refs := make([]prompts.AttachmentRef, 0, len(attachments))
	for _, a := range attachments {
		refs = append(refs, prompts.AttachmentRef{
			Name:      a.Name,
			MediaType: a.MediaType(),
			URL:       a.URL,
			Inline:    a.Kind() == domain.AttachmentInline,
		})
	}
	return refs
}
