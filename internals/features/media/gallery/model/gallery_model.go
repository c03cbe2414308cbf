package model

import (
	"time"

	"schooladmin_backend/internals/constants"
	"schooladmin_backend/internals/docstore"
	"schooladmin_backend/internals/listing/record"
)

const (
	Collection = "gallery"
	PathPrefix = "gallery"
)

type GalleryItem struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	FullPath  string `json:"fullPath"`
	Category  string `json:"category"`
	CreatedAt string `json:"createdAt"`
}

// Document is the stored form of a freshly uploaded item.
func (g *GalleryItem) Document(now time.Time) map[string]any {
	return map[string]any{
		"url":       g.URL,
		"name":      g.Name,
		"type":      g.Type,
		"fullPath":  g.FullPath,
		"category":  g.Category,
		"createdAt": docstore.At(now),
	}
}

type field = record.Field[GalleryItem]

// Kind filters gallery items by category instead of status. Only the
// category can be changed after upload.
var Kind = &record.Kind[GalleryItem]{
	Name:         "gallery",
	Label:        "gallery items",
	Noun:         "gallery item",
	Collection:   Collection,
	FilterField:  "category",
	FilterDomain: constants.Categories,
	Fields: []field{
		{Name: "name", Label: "Name", Keys: []string{"name"},
			Get: func(g *GalleryItem) string { return g.Name }, Set: func(g *GalleryItem, v string) { g.Name = v }},
		{Name: "type", Label: "Type", Keys: []string{"type"}, Default: constants.MediaImage,
			Get: func(g *GalleryItem) string { return g.Type }, Set: func(g *GalleryItem, v string) { g.Type = v }},
		{Name: "category", Label: "Category", Keys: []string{"category"}, Default: constants.DefaultCategory, Editable: true,
			Get: func(g *GalleryItem) string { return g.Category }, Set: func(g *GalleryItem, v string) { g.Category = v }},
		{Name: "url", Label: "URL", Keys: []string{"url"},
			Get: func(g *GalleryItem) string { return g.URL }, Set: func(g *GalleryItem, v string) { g.URL = v }},
		{Name: "fullPath", Label: "Path", Keys: []string{"fullPath"},
			Get: func(g *GalleryItem) string { return g.FullPath }, Set: func(g *GalleryItem, v string) { g.FullPath = v }},
		{Name: "createdAt", Label: "Uploaded", Keys: []string{"createdAt"}, Timestamp: true,
			Get: func(g *GalleryItem) string { return g.CreatedAt }, Set: func(g *GalleryItem, v string) { g.CreatedAt = v }},
	},
	ID:     func(g *GalleryItem) string { return g.ID },
	SetID:  func(g *GalleryItem, v string) { g.ID = v },
	Search: func(g *GalleryItem) []string { return []string{g.Name} },
}
