package colormap

import (
	"path/filepath"

	"hstin/palcolormap/parser"
)

// Load parses the .pal file at path and returns its colormap and
// normalizer. Parser errors are returned unchanged.
func Load(path string) (*Colormap, *Normalizer, error) {
	table, err := parser.Parse(path)
	if err != nil {
		return nil, nil, err
	}

	cm, norm, err := FromTable(table)
	if err != nil {
		return nil, nil, err
	}
	cm.name = filepath.Base(path)
	return cm, norm, nil
}

// LoadColormap is Load without the normalizer.
func LoadColormap(path string) (*Colormap, error) {
	cm, _, err := Load(path)
	return cm, err
}

func FromTable(table *parser.ColorTable) (*Colormap, *Normalizer, error) {
	return Build(ExtractColors(table), table.Values())
}
