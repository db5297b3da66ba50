package gate

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Rina-ui/Front-TP-JEE/internal/models"
)

//go:embed routes.yaml
var defaultRoutes []byte

const (
	SignInPath        = "/login"
	AdminLandingPath  = "/admin/dashboard"
	ClientLandingPath = "/client/dashboard"
)

// Route is one navigable destination and the roles allowed to reach it.
type Route struct {
	Name   string        `yaml:"name"`
	Path   string        `yaml:"path"`
	Public bool          `yaml:"public"`
	Roles  []models.Role `yaml:"roles"`
}

// Table resolves request paths to declared routes.
type Table struct {
	routes []Route
}

type routeFile struct {
	Routes []Route `yaml:"routes"`
}

// DefaultTable parses the embedded route declarations.
func DefaultTable() (*Table, error) {
	return ParseTable(defaultRoutes)
}

// ParseTable decodes a YAML route file, rejecting unknown roles and duplicates.
func ParseTable(data []byte) (*Table, error) {
	var file routeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode routes: %w", err)
	}
	seen := make(map[string]bool, len(file.Routes))
	for i, r := range file.Routes {
		if !strings.HasPrefix(r.Path, "/") {
			return nil, fmt.Errorf("route %q: path must start with /", r.Name)
		}
		if seen[r.Path] {
			return nil, fmt.Errorf("route %q: duplicate path %s", r.Name, r.Path)
		}
		seen[r.Path] = true
		for j, role := range r.Roles {
			parsed, err := models.ParseRole(string(role))
			if err != nil {
				return nil, fmt.Errorf("route %q: %w", r.Name, err)
			}
			file.Routes[i].Roles[j] = parsed
		}
	}
	// Longest path first so /clients/register wins over /clients.
	sort.SliceStable(file.Routes, func(i, j int) bool {
		return len(file.Routes[i].Path) > len(file.Routes[j].Path)
	})
	return &Table{routes: file.Routes}, nil
}

// Lookup returns the route owning path: an exact match or the longest declared
// prefix ending at a segment boundary.
func (t *Table) Lookup(path string) (Route, bool) {
	for _, r := range t.routes {
		if path == r.Path || strings.HasPrefix(path, r.Path+"/") {
			return r, true
		}
	}
	return Route{}, false
}

// Routes lists the declared routes.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}
