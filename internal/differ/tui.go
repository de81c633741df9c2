// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csilog/csilog/internal/snapshot"
)

// SelectSnapshotFiles lets the user pick exactly two exports to compare.
// Returns nil if the picker is quit without a pair.
func SelectSnapshotFiles(items []snapshot.FileInfo) []snapshot.FileInfo {
	p := tea.NewProgram(tuiModel{items: items})
	m, _ := p.Run()
	return m.(tuiModel).selected
}

type tuiModel struct {
	items    []snapshot.FileInfo
	cursor   int
	selected []snapshot.FileInfo
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "w":
			return m, tea.WindowSize()
		case "q", "esc":
			m.selected = nil
			return m, tea.Quit
		case "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case " ":
			if contains(m.selected, m.items[m.cursor]) {
				// Remove item from selected
				for i, v := range m.selected {
					if v.Path == m.items[m.cursor].Path {
						m.selected = append(m.selected[:i], m.selected[i+1:]...)
						break
					}
				}
			} else if len(m.selected) < 2 {
				m.selected = append(m.selected, m.items[m.cursor])
			}
		case "enter":
			if len(m.selected) == 2 {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m tuiModel) View() string {
	s := "Select two snapshot exports:\n\n"
	for i, f := range m.items {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		mark := " "
		if contains(m.selected, f) {
			mark = "x"
		}

		s += fmt.Sprintf("%s [%s] %-40s %s\n", cursor, mark, f.Name, f.ModTime.Format("2006-01-02T15:04:05Z"))
	}
	return s + "\nSPACE: toggle, ENTER: go, Q/ESCAPE: quit\n"
}

func contains(files []snapshot.FileInfo, file snapshot.FileInfo) bool {
	for _, f := range files {
		if f.Path == file.Path {
			return true
		}
	}
	return false
}
