package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"muselib/internal/catalog"
)

func (m *Model) renderLogin() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Sign in"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Username\n%s\n\n", m.username.View()))
	b.WriteString(fmt.Sprintf("Password\n%s\n", m.password.View()))

	if m.loginErr != "" {
		b.WriteString(fmt.Sprintf("\n%s\n", styles.err.Render(m.loginErr)))
	}

	b.WriteString(fmt.Sprintf("\n%s", styles.help.Render("tab switch • enter submit • ctrl+c quit")))
	return b.String()
}

func (m *Model) renderCatalog() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s\n\n", m.search.View()))

	switch m.cat.Phase() {
	case catalog.Loading:
		b.WriteString(styles.warn.Render("Loading..."))
	case catalog.Failed:
		b.WriteString(styles.err.Render(fmt.Sprintf("Error: %s", m.cat.ErrorMessage())))
	default:
		if len(m.cat.Songs()) == 0 {
			b.WriteString(styles.help.Render("No songs match this search."))
		} else {
			b.WriteString(m.songList.View())
		}
	}

	if _, open := m.cat.Popover(); open {
		b.WriteString("\n\n")
		b.WriteString(m.renderPopover())
	}

	helpKeys := []key.Binding{m.keys.search, m.keys.add, m.keys.lists, m.keys.quit}
	b.WriteString(fmt.Sprintf("\n\n%s", m.help.ShortHelpView(helpKeys)))
	return b.String()
}

func (m *Model) renderPopover() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Add to playlist"))
	b.WriteString("\n")

	for i, pl := range m.mgr.Playlists() {
		cursor := "  "
		line := pl.Title
		if i == m.popIndex {
			cursor = "> "
			line = styles.ok.Render(line)
		}
		b.WriteString(fmt.Sprintf("%s%s\n", cursor, line))
	}

	b.WriteString(styles.help.Render("enter add • esc close"))
	return b.String()
}

func (m *Model) renderPlaylistList() string {
	if m.creating {
		return m.renderCreateForm()
	}

	var b strings.Builder

	if m.renaming != 0 {
		b.WriteString(styles.title.Render("Rename playlist"))
		b.WriteString(fmt.Sprintf("\n\n%s\n", m.renameInput.View()))
		if m.formErr != "" {
			b.WriteString(fmt.Sprintf("\n%s\n", styles.err.Render(m.formErr)))
		}
		b.WriteString(fmt.Sprintf("\n%s", styles.help.Render("enter save • esc cancel")))
		return b.String()
	}

	b.WriteString(m.playlistList.View())

	if m.formErr != "" {
		b.WriteString(fmt.Sprintf("\n%s", styles.err.Render(m.formErr)))
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.create, m.keys.rename, m.keys.remove, m.keys.back}
	b.WriteString(fmt.Sprintf("\n\n%s", m.help.ShortHelpView(helpKeys)))
	return b.String()
}

func (m *Model) renderCreateForm() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("New playlist"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Title\n%s\n\n", m.createTitle.View()))
	b.WriteString(fmt.Sprintf("Cover image\n%s\n", m.createCover.View()))

	if m.formErr != "" {
		b.WriteString(fmt.Sprintf("\n%s\n", styles.err.Render(m.formErr)))
	}

	b.WriteString(fmt.Sprintf("\n%s", styles.help.Render("tab switch • enter submit • esc cancel")))
	return b.String()
}

func (m *Model) renderPlaylistSongs() string {
	var b strings.Builder

	b.WriteString(m.playlistSongs.View())

	if m.formErr != "" {
		b.WriteString(fmt.Sprintf("\n%s", styles.err.Render(m.formErr)))
	}

	helpKeys := []key.Binding{m.keys.remove, m.keys.back, m.keys.quit}
	b.WriteString(fmt.Sprintf("\n\n%s", m.help.ShortHelpView(helpKeys)))
	return b.String()
}
