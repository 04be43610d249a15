package gallery

import (
	"fmt"
	"os"
	"strings"

	gerrors "git.home.luguber.info/inful/gallerybuilder/internal/errors"
)

const navBlockMarker = "```{eval-rst}"

// InjectNavTree appends a hidden toctree of the project's sibling documents
// to its main document, replacing a previously injected block when present.
// Running the build twice over the same tree leaves the file byte-identical.
func InjectNavTree(docPath string, children []string) error {
	if len(children) == 0 {
		return nil
	}
	raw, err := os.ReadFile(docPath)
	if err != nil {
		return gerrors.WriteFailed(docPath, err)
	}
	body := stripNavBlock(string(raw))

	var b strings.Builder
	b.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("\n" + navBlockMarker + "\n.. toctree::\n   :hidden:\n\n")
	for _, c := range children {
		fmt.Fprintf(&b, "   %s\n", c)
	}
	b.WriteString("```\n")

	// Identical content is not rewritten: file watchers must not see the
	// build's own output as a change.
	if b.String() == string(raw) {
		return nil
	}
	if err := os.WriteFile(docPath, []byte(b.String()), 0o644); err != nil {
		return gerrors.WriteFailed(docPath, err)
	}
	return nil
}

// stripNavBlock removes a trailing injected block so repeated injection does
// not accumulate copies.
func stripNavBlock(body string) string {
	idx := strings.LastIndex(body, navBlockMarker)
	if idx < 0 {
		return body
	}
	tail := strings.TrimSpace(body[idx:])
	if !strings.HasSuffix(tail, "```") || !strings.Contains(tail, ".. toctree::") {
		return body
	}
	return strings.TrimRight(body[:idx], "\n") + "\n"
}
