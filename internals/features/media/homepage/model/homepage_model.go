package model

import (
	"time"

	"schooladmin_backend/internals/constants"
	"schooladmin_backend/internals/docstore"
)

const (
	Collection = "homePage"
	PathPrefix = "homepage"
)

// Slot is one singleton pointer document under homePage.
type Slot struct {
	ID string
	// Accept is the content type prefix the slot takes.
	Accept     string
	Label      string
	WrongType  string
	EmptyInput string
}

var (
	Banner = Slot{
		ID:         "banner",
		Accept:     "image/",
		Label:      "banner",
		WrongType:  constants.MsgSelectImage,
		EmptyInput: constants.MsgSelectImageFirst,
	}
	Video = Slot{
		ID:         "video",
		Accept:     "video/",
		Label:      "video",
		WrongType:  constants.MsgSelectVideo,
		EmptyInput: constants.MsgSelectVideoFirst,
	}
)

// Slots maps the :slot route parameter to its slot.
var Slots = map[string]Slot{Banner.ID: Banner, Video.ID: Video}

// Media is the pointer stored at homePage/<slot>.
type Media struct {
	URL       string `json:"url"`
	Name      string `json:"name"`
	FullPath  string `json:"fullPath"`
	UpdatedAt string `json:"updatedAt"`
}

func (m *Media) Document(now time.Time) map[string]any {
	return map[string]any{
		"url":       m.URL,
		"name":      m.Name,
		"fullPath":  m.FullPath,
		"updatedAt": docstore.At(now),
	}
}
