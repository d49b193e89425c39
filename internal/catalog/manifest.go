package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the on-disk description of a catalog.
//
//	folder: /Gallery
//	images:
//	  - file: IMG_0549.jpg
//	    title: Harbour at dusk
type Manifest struct {
	Folder string          `yaml:"folder"`
	Images []ManifestEntry `yaml:"images"`
}

// ManifestEntry is a single image line of a manifest.
type ManifestEntry struct {
	File  string `yaml:"file"`
	Title string `yaml:"title,omitempty"`
}

// LoadManifest reads a YAML manifest and builds the catalog it describes.
// defaultFolder is used when the manifest does not name one.
func LoadManifest(path, defaultFolder string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	return ParseManifest(data, defaultFolder)
}

// ParseManifest decodes manifest bytes into a catalog.
func ParseManifest(data []byte, defaultFolder string) (*Catalog, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	folder := m.Folder
	if folder == "" {
		folder = defaultFolder
	}
	images := make([]Image, 0, len(m.Images))
	for _, e := range m.Images {
		images = append(images, Image{Name: e.File, Title: e.Title})
	}
	return NewFromImages(folder, images), nil
}

// Marshal renders the catalog back into manifest form.
func (c *Catalog) Marshal() ([]byte, error) {
	m := Manifest{Folder: c.folder, Images: make([]ManifestEntry, 0, len(c.images))}
	for _, img := range c.images {
		e := ManifestEntry{File: img.Name}
		if img.Title != img.Name {
			e.Title = img.Title
		}
		m.Images = append(m.Images, e)
	}
	out, err := yaml.Marshal(&m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return out, nil
}
