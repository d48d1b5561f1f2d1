package gate

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"craftwell-hq/vega/pkg/catalog"
	"craftwell-hq/vega/pkg/dsl"
)

// RouteSpec is the on-disk YAML shape of one route: the condition is
// authored DSL text, compiled against the catalog at load time.
type RouteSpec struct {
	Name      string `yaml:"name"`
	Priority  int    `yaml:"priority"`
	Target    string `yaml:"target"`
	Condition string `yaml:"condition"`
}

// RulesFile is the on-disk YAML shape of a rules file.
type RulesFile struct {
	Routes []RouteSpec `yaml:"routes"`
}

// LoadRules reads a rules YAML file and compiles every route's condition
// against the catalog. Any invalid condition fails the whole load; a rules
// file is applied all-or-nothing.
func LoadRules(path string, cat *catalog.Catalog) ([]Route, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %q: %w", path, err)
	}
	routes, err := CompileRules(data, cat)
	if err != nil {
		return nil, fmt.Errorf("rules file %q: %w", path, err)
	}
	return routes, nil
}

// CompileRules parses rules YAML and compiles the route conditions.
func CompileRules(data []byte, cat *catalog.Catalog) ([]Route, error) {
	var file RulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rules YAML: %w", err)
	}

	seen := make(map[string]bool, len(file.Routes))
	routes := make([]Route, 0, len(file.Routes))
	for i, spec := range file.Routes {
		if spec.Name == "" {
			return nil, fmt.Errorf("route %d: name is required", i)
		}
		if seen[spec.Name] {
			return nil, fmt.Errorf("route %q: duplicate name", spec.Name)
		}
		seen[spec.Name] = true
		if spec.Target == "" {
			return nil, fmt.Errorf("route %q: target is required", spec.Name)
		}

		result := dsl.Parse(spec.Condition, cat)
		if !result.OK {
			return nil, fmt.Errorf("route %q: invalid condition: %s", spec.Name, result.Errors[0].Message)
		}

		routes = append(routes, Route{
			Name:      spec.Name,
			Priority:  spec.Priority,
			Target:    spec.Target,
			DSL:       result.Canonical,
			Condition: result.JSONLogic,
		})
	}
	return routes, nil
}
