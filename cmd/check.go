package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/epcltv/epcltv/color"
	"github.com/epcltv/epcltv/icon"
	"github.com/epcltv/epcltv/key"
	"github.com/epcltv/epcltv/style"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that the media engine is installed",
	Run: func(cmd *cobra.Command, args []string) {
		binary := viper.GetString(key.PlayerMPVBinary)
		path, err := exec.LookPath(binary)
		if err != nil {
			printMissingDependencyError(binary)
			os.Exit(1)
		}
		fmt.Printf("%s %s found at %s\n", icon.Get(icon.Success), style.Fg(color.Purple)(binary), path)
	},
}

// CheckDependencies exits with an explanation when the configured mpv binary is not in PATH.
func CheckDependencies() {
	binary := viper.GetString(key.PlayerMPVBinary)
	if _, err := exec.LookPath(binary); err != nil {
		printMissingDependencyError(binary)
		os.Exit(1)
	}
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case "darwin":
		installCmd = "brew install mpv"
	case "linux":
		installCmd = "sudo apt install mpv"
	case "windows":
		installCmd = "scoop install mpv"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.ErrorColor).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.ErrorColor).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The media engine '%s' was not found in your PATH.", dep))

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
