package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/socialquill/quill/src/conversation"
)

var (
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	systemStyle    = lipgloss.NewStyle().Faint(true)
	toolStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	mutedStyle     = lipgloss.NewStyle().Faint(true)
)

// renderTranscript prints the conversation stream. Closed tool instances
// show as collapsed placeholders; the live one is marked.
func renderTranscript(entries []conversation.Entry, liveID string) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(renderEntry(e, liveID))
	}
	return b.String()
}

func printEntry(e conversation.Entry, liveID string) {
	fmt.Print(renderEntry(e, liveID))
}

func renderEntry(e conversation.Entry, liveID string) string {
	switch e.Role {
	case conversation.RoleUser:
		return userStyle.Render("you") + "  " + e.Content + "\n"
	case conversation.RoleAssistant:
		return assistantStyle.Render("assistant") + "  " + e.Content + "\n"
	case conversation.RoleSystem:
		return systemStyle.Render(e.Content) + "\n"
	case conversation.RoleTool:
		return renderToolEntry(e, liveID)
	default:
		return e.Content + "\n"
	}
}

func renderToolEntry(e conversation.Entry, liveID string) string {
	header := toolStyle.Render(fmt.Sprintf("[%s]", e.Kind)) + " " + e.Content
	switch {
	case e.Status == conversation.ToolClosed:
		return header + " " + mutedStyle.Render("(minimized)") + "\n"
	case e.ID == liveID:
		header += " " + mutedStyle.Render("(live)")
	}
	out := header + "\n"
	if e.Payload != nil {
		out += renderBundle(e.Payload)
	}
	return out
}

func renderBundle(b *conversation.Bundle) string {
	var sb strings.Builder
	for _, v := range b.Variations {
		sb.WriteString("  " + userStyle.Render(v.Platform) + "\n")
		for _, line := range strings.Split(v.Text, "\n") {
			sb.WriteString("    " + line + "\n")
		}
	}
	return sb.String()
}
