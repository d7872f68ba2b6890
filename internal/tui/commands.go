package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/browse"
	"github.com/mmcdole/reel/internal/domain"
)

const (
	requestTimeout = 30 * time.Second
	statusDuration = 4 * time.Second
)

// Command factories for async operations

// ExecuteCmd runs a browse request off the UI goroutine. Invalid requests
// (operations that needed no fetch) produce no command. The catalog client
// bounds each HTTP call; the controller cancels superseded requests.
func ExecuteCmd(ctrl *browse.Controller, req browse.Request) tea.Cmd {
	if !req.Valid() {
		return nil
	}
	return func() tea.Msg {
		state, applied := ctrl.Execute(context.Background(), req)
		return BrowseResultMsg{State: state, Applied: applied}
	}
}

// LoadDetailsCmd fetches the extended record for one movie
func LoadDetailsCmd(client domain.CatalogClient, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		details, err := client.FetchDetails(ctx, id)
		if err != nil {
			return DetailsFailedMsg{ID: id, Err: err}
		}
		return DetailsLoadedMsg{Details: details}
	}
}

// LoadGenresCmd fetches the genre table used to label list rows
func LoadGenresCmd(lister domain.GenreLister) tea.Cmd {
	if lister == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		genres, err := lister.FetchGenres(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading genres"}
		}
		return GenresLoadedMsg{Genres: genres}
	}
}

// OpenURLCmd hands url to the external launcher
func OpenURLCmd(opener Opener, url string) tea.Cmd {
	if opener == nil || url == "" {
		return nil
	}
	return func() tea.Msg {
		if err := opener.Launch(url); err != nil {
			return LaunchFailedMsg{URL: url, Err: err}
		}
		return nil
	}
}

// WaitForNotificationCmd blocks until the next notification arrives
func WaitForNotificationCmd(ch <-chan domain.Notification) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return NotificationMsg{Notification: n}
	}
}

// ClearStatusCmd clears status message seq after the display duration
func ClearStatusCmd(seq int) tea.Cmd {
	return tea.Tick(statusDuration, func(time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}
