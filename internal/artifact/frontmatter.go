package artifact

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// FrontMatter is the YAML header shared by all artifact kinds. Fields
// that don't apply to a kind are omitted from its file.
type FrontMatter struct {
	ID      string `yaml:"id,omitempty"`
	ULI     string `yaml:"uli,omitempty"`
	Slug    string `yaml:"slug,omitempty"`
	Task    string `yaml:"task,omitempty"`
	Title   string `yaml:"title,omitempty"`
	Owner   string `yaml:"owner,omitempty"`
	Plan    string `yaml:"plan,omitempty"`
	Spec    string `yaml:"spec,omitempty"`
	SpecID  string `yaml:"spec_id,omitempty"`
	Status  string `yaml:"status,omitempty"`
	Created string `yaml:"created,omitempty"`
	Started string `yaml:"started,omitempty"`
}

const frontMatterDelim = "---"

// ParseFrontMatter splits a Markdown document into its YAML front
// matter and body. Documents without a front matter block return an
// error.
func ParseFrontMatter(content string) (FrontMatter, string, error) {
	var fm FrontMatter

	if !strings.HasPrefix(content, frontMatterDelim+"\n") {
		return fm, "", fmt.Errorf("document has no front matter")
	}

	rest := content[len(frontMatterDelim)+1:]
	end := strings.Index(rest, "\n"+frontMatterDelim)
	if end == -1 {
		return fm, "", fmt.Errorf("front matter is not terminated")
	}

	header := rest[:end]
	body := rest[end+1+len(frontMatterDelim):]
	body = strings.TrimPrefix(body, "\n")

	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return fm, "", fmt.Errorf("parsing front matter: %w", err)
	}
	return fm, body, nil
}

// ReplaceStatus rewrites the first status: line of a document in
// place, preserving all other content byte for byte. Returns the
// updated document and whether anything changed.
func ReplaceStatus(content, newStatus string) (string, bool) {
	lines := strings.Split(content, "\n")
	inHeader := false
	for i, line := range lines {
		if strings.TrimSpace(line) == frontMatterDelim {
			if !inHeader {
				inHeader = true
				continue
			}
			break
		}
		if !inHeader {
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(line), "status:") {
			updated := "status: " + newStatus
			if line == updated {
				return content, false
			}
			lines[i] = updated
			return strings.Join(lines, "\n"), true
		}
	}
	return content, false
}
