package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// DefaultOrder is the display order of the embedded category files.
var DefaultOrder = []string{"python", "flask", "fastapi", "data-analyst"}

// Load returns the embedded catalog.
func Load() (*Catalog, error) {
	return LoadFS(dataFS, "data", DefaultOrder)
}

// MustLoad is like Load but panics on error. The embedded data is validated
// by tests, so a failure here means the binary was built from broken data.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// LoadFS reads <dir>/<id>.yaml for each id in order from fsys.
func LoadFS(fsys fs.FS, dir string, order []string) (*Catalog, error) {
	categories := make([]Category, 0, len(order))
	for _, id := range order {
		name := path.Join(dir, id+".yaml")
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		cat, err := ParseCategory(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if cat.ID != id {
			return nil, fmt.Errorf("%s: category id %q does not match file name", name, cat.ID)
		}
		categories = append(categories, cat)
	}
	return New(categories)
}

// ParseCategory decodes and schema-validates a single category document.
func ParseCategory(data []byte) (Category, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Category{}, fmt.Errorf("parse yaml: %w", err)
	}
	doc, err := toJSONValue(raw)
	if err != nil {
		return Category{}, fmt.Errorf("normalize yaml: %w", err)
	}
	schema, err := compiledCategorySchema()
	if err != nil {
		return Category{}, fmt.Errorf("compile schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return Category{}, fmt.Errorf("schema validation failed: %w", err)
	}

	var cat Category
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return Category{}, fmt.Errorf("decode category: %w", err)
	}
	return cat, nil
}
