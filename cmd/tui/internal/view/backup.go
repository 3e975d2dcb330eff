package view

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nooranifarms/coopledger/internal/backup"
)

// BackupModel drives manual exports and restores from the terminal.
type BackupModel struct {
	CommonModel
	svc *backup.Service

	pathInput textinput.Model
	status    string
}

func NewBackupModel(svc *backup.Service) BackupModel {
	ti := textinput.New()
	ti.Placeholder = "./backups/coopledger-backup.json"
	ti.Width = 60
	ti.Prompt = "File: "
	ti.Focus()

	return BackupModel{
		svc:       svc,
		pathInput: ti,
	}
}

func (m BackupModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m BackupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "ctrl+e":
			m.status = m.export(m.svc.ExportJSON)
			return m, nil
		case "ctrl+s":
			m.status = m.export(m.svc.ExportCSV)
			return m, nil
		case "enter":
			m.status = m.restore()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)

	return m, cmd
}

func (m BackupModel) export(write func(w io.Writer) error) string {
	path := strings.TrimSpace(m.pathInput.Value())
	if path == "" {
		return "Enter a file path first"
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	defer f.Close()

	if err := write(f); err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	return "Exported to " + path
}

func (m BackupModel) restore() string {
	path := strings.TrimSpace(m.pathInput.Value())
	if path == "" {
		return "Enter a file path first"
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		if err := m.svc.ImportCSV(f); err != nil {
			return fmt.Sprintf("Import rejected: %v", err)
		}

		return "Merged CSV backup from " + path
	}

	if err := m.svc.ImportJSON(f); err != nil {
		return fmt.Sprintf("Import rejected: %v", err)
	}

	return "Restored JSON backup from " + path
}

func (m BackupModel) View() string {
	body := fmt.Sprintf(
		"Backup / Restore\n\n%s\n\n"+
			"Ctrl+E: export JSON | Ctrl+S: export CSV | Enter: import file\n"+
			"(JSON restore replaces everything; CSV import merges new records)\n\n"+
			"Esc to back",
		m.pathInput.View(),
	)

	if m.status != "" {
		body += "\n\n" + lipgloss.NewStyle().Faint(true).Render(m.status)
	}

	return lipgloss.NewStyle().Padding(2).Render(body)
}
