package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const requestTimeout = 45 * time.Second

func (m Model) fetchTokenCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := client.FetchToken(ctx); err != nil {
			return ErrMsg{Err: err, Context: "connecting to server"}
		}
		return TokenReadyMsg{}
	}
}

func (m Model) loadPostsCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		items, err := client.ListPosts(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading posts"}
		}
		return PostsLoadedMsg{Items: items}
	}
}

// searchCmd tags the result with the content-item id of the session
// active at dispatch, so late responses for another session are
// ignored.
func (m Model) searchCmd(contentItemID int64, query string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		results, err := client.SearchImages(ctx, query)
		if err != nil {
			return ErrMsg{Err: err, Context: "searching images", ContentItemID: contentItemID}
		}
		return SearchResultsMsg{ContentItemID: contentItemID, Results: results}
	}
}

func (m Model) setThumbnailCmd(contentItemID int64, imageURL, photographer string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		thumb, err := client.SetThumbnail(ctx, contentItemID, imageURL, photographer)
		if err != nil {
			return ErrMsg{Err: err, Context: "setting thumbnail", ContentItemID: contentItemID}
		}
		return ThumbnailSetMsg{ContentItemID: contentItemID, Thumbnail: thumb}
	}
}
