package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	gray   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

var interactive = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

// printStyled prints msg with an emoji prefix and colors on a terminal, and plain text otherwise.
func printStyled(style lipgloss.Style, emoji, msg string) {
	if !interactive {
		fmt.Println(msg)
		return
	}
	fmt.Println(style.Render(emoji + " " + msg))
}
