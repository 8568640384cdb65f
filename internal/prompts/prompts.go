// Package prompts holds the interviewer prompt templates. Templates are plain
// markdown with {{KEY}} placeholders filled in a single pass, so candidate text
// that happens to contain a placeholder is never expanded.
package prompts

import (
	"embed"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Name identifies an embedded template.
type Name string

const (
	Experience Name = "experience"
	Question   Name = "question"
	Evaluation Name = "evaluation"
	Feedback   Name = "feedback"
	Followup   Name = "followup"
	Candidate  Name = "candidate"
	Report     Name = "report"
)

// Vars maps placeholder keys (without braces) to their values.
type Vars map[string]string

//go:embed templates/*.md
var templates embed.FS

var placeholder = regexp.MustCompile(`\{\{([A-Z_]+)\}\}`)

// Render fills the named template. Every placeholder used by the template must
// be present in vars.
func Render(name Name, vars Vars) (string, error) {
	raw, err := templates.ReadFile("templates/" + string(name) + ".md")
	if err != nil {
		return "", fmt.Errorf("unknown prompt template %q", name)
	}
	template := string(raw)

	if missing := missingKeys(template, vars); len(missing) > 0 {
		return "", fmt.Errorf("prompt template %q: missing values for %s", name, strings.Join(missing, ", "))
	}

	pairs := make([]string, 0, len(vars)*2)
	for key, value := range vars {
		pairs = append(pairs, "{{"+key+"}}", value)
	}

	return strings.TrimSpace(strings.NewReplacer(pairs...).Replace(template)), nil
}

func missingKeys(template string, vars Vars) []string {
	seen := make(map[string]struct{})
	var missing []string
	for _, match := range placeholder.FindAllStringSubmatch(template, -1) {
		key := match[1]
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := vars[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}
