package tui

import (
	"github.com/mmcdole/reel/internal/browse"
	"github.com/mmcdole/reel/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// BrowseResultMsg carries the outcome of an executed browse request.
// Applied is false when a newer selection superseded the request.
type BrowseResultMsg struct {
	State   browse.State
	Applied bool
}

// DetailsLoadedMsg signals that the extended record for an item arrived
type DetailsLoadedMsg struct {
	Details *domain.CatalogItemDetails
}

// DetailsFailedMsg signals that details could not be loaded
type DetailsFailedMsg struct {
	ID  int
	Err error
}

// GenresLoadedMsg carries the genre id to name table
type GenresLoadedMsg struct {
	Genres []domain.Genre
}

// NotificationMsg delivers a toast from the domain layer
type NotificationMsg struct {
	Notification domain.Notification
}

// ClearStatusMsg hides the status line if it is still showing message Seq
type ClearStatusMsg struct {
	Seq int
}

// LaunchFailedMsg reports that a URL could not be opened externally
type LaunchFailedMsg struct {
	URL string
	Err error
}
