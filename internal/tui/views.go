package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)

	labelStyle = lipgloss.NewStyle().Bold(true)
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Thumbnail Manager"))
	b.WriteString("\n\n")

	switch m.State {
	case StateGrid:
		b.WriteString(m.viewGrid())
	default:
		b.WriteString(m.viewModal())
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
	}

	return b.String()
}

func (m Model) viewGrid() string {
	if m.loading {
		return dimStyle.Render("Loading posts...")
	}
	if len(m.posts) == 0 {
		return dimStyle.Render("No posts found.")
	}

	var b strings.Builder
	for i, post := range m.posts {
		marker := "  "
		line := post.Title
		if i == m.cursor {
			marker = "> "
			line = selectedStyle.Render(line)
		}

		label := "[Generate]"
		thumb := dimStyle.Render("no thumbnail")
		if post.ThumbnailURL != "" {
			label = "[Regenerate]"
			thumb = dimStyle.Render(post.ThumbnailURL)
		}

		fmt.Fprintf(&b, "%s%s  %s  %s\n", marker, line, labelStyle.Render(label), thumb)
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter: generate thumbnail • r: reload • q: quit"))
	return b.String()
}

func (m Model) viewModal() string {
	if m.modal == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render("Generate Thumbnail for: " + m.modal.itemTitle))
	b.WriteString("\n\n")

	switch m.State {
	case StateModalQuery:
		b.WriteString(m.modal.input.View())
		b.WriteString("\n\n")
		if m.modal.searching {
			b.WriteString(statusStyle.Render("Searching..."))
		} else {
			b.WriteString(dimStyle.Render("enter: search • esc: close"))
		}

	case StateModalResults:
		if m.modal.assigning {
			b.WriteString(statusStyle.Render("Setting thumbnail..."))
			break
		}
		for i, result := range m.modal.results {
			marker := "  "
			line := fmt.Sprintf("Photo by %s (%dx%d)", result.Photographer, result.Width, result.Height)
			if i == m.modal.resultCursor {
				marker = "> "
				line = selectedStyle.Render(line)
			}
			fmt.Fprintf(&b, "%s%s\n", marker, line)
		}
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("enter: pick size • s: new search • esc: close"))

	case StateModalSizes:
		if m.modal.assigning {
			b.WriteString(statusStyle.Render("Setting thumbnail..."))
			break
		}
		b.WriteString(labelStyle.Render("Select Image Size"))
		b.WriteString("\n")
		for i, choice := range m.modal.sizes {
			marker := "  "
			line := choice.Label
			if i == m.modal.sizeCursor {
				marker = "> "
				line = selectedStyle.Render(line)
			}
			fmt.Fprintf(&b, "%s%s\n", marker, line)
		}
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("enter: set thumbnail • esc: back to results"))
	}

	return modalStyle.Render(b.String())
}
