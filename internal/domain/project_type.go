package domain

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// GeneralProjectType is the fallback for untagged or unknown projects.
const GeneralProjectType = "general"

//go:embed catalog/project_types.yaml
var projectTypesYAML []byte

type ProjectType struct {
	Type              string   `yaml:"type" json:"type"`
	Name              string   `yaml:"name" json:"name"`
	Description       string   `yaml:"description" json:"description"`
	DefaultFields     []string `yaml:"default_fields" json:"default_fields"`
	SuggestedSkills   []string `yaml:"suggested_skills" json:"suggested_skills"`
	TypicalMilestones []string `yaml:"typical_milestones" json:"typical_milestones"`
	Keywords          []string `yaml:"keywords" json:"-"`

	pattern *regexp.Regexp
}

type projectTypeCatalog struct {
	Types []ProjectType `yaml:"types"`
}

var (
	catalogOnce sync.Once
	catalog     []ProjectType
	catalogErr  error
)

func loadCatalog() ([]ProjectType, error) {
	catalogOnce.Do(func() {
		var c projectTypeCatalog
		if err := yaml.Unmarshal(projectTypesYAML, &c); err != nil {
			catalogErr = fmt.Errorf("parsing project type catalog: %w", err)
			return
		}
		for i := range c.Types {
			if len(c.Types[i].Keywords) == 0 {
				continue
			}
			quoted := make([]string, len(c.Types[i].Keywords))
			for j, k := range c.Types[i].Keywords {
				quoted[j] = regexp.QuoteMeta(k)
			}
			c.Types[i].pattern = regexp.MustCompile(`\b(` + strings.Join(quoted, "|") + `)\b`)
		}
		catalog = c.Types
	})
	return catalog, catalogErr
}

// ProjectTypes returns every catalog entry in declaration order.
func ProjectTypes() []ProjectType {
	types, err := loadCatalog()
	if err != nil {
		return nil
	}
	return types
}

// LookupProjectType returns the catalog entry for tag, falling back to general.
func LookupProjectType(tag string) ProjectType {
	types := ProjectTypes()
	norm := NormalizeProjectType(tag)
	for _, t := range types {
		if t.Type == norm {
			return t
		}
	}
	return ProjectType{Type: GeneralProjectType, Name: "General Project"}
}

// NormalizeProjectType lowercases tag and maps unknown values to general.
func NormalizeProjectType(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, t := range ProjectTypes() {
		if t.Type == tag {
			return tag
		}
	}
	return GeneralProjectType
}

// DetectProjectType guesses a type from document text by keyword, checked in
// catalog order.
func DetectProjectType(content string) string {
	lower := strings.ToLower(content)
	for _, t := range ProjectTypes() {
		if t.pattern != nil && t.pattern.MatchString(lower) {
			return t.Type
		}
	}
	return GeneralProjectType
}
