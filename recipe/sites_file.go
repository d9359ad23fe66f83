package recipe

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// sitesFile is the on-disk layout of RECIPE_SITES_FILE:
//
//	sites:
//	  - host: example-recipes.com
//	    aliases: [example-recipes.co.uk]
//	    title: h1.recipe-title
//	    ingredients: ul.ingredients > li
type sitesFile struct {
	Sites []Site `yaml:"sites"`
}

// LoadSitesFile reads additional site entries from a YAML file.
func LoadSitesFile(path string) ([]Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sites file: %w", err)
	}
	return ParseSites(data)
}

// ParseSites decodes a YAML site table. Unknown keys are rejected so a
// typo in a selector key does not silently disable it.
func ParseSites(data []byte) ([]Site, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f sitesFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse sites file: %w", err)
	}
	for i, s := range f.Sites {
		if s.Host == "" {
			return nil, fmt.Errorf("sites file: entry #%d has no host", i+1)
		}
	}
	return f.Sites, nil
}
