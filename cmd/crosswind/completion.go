package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate a shell completion script for crosswind.

Bash:
  $ source <(crosswind completion bash)
  # To load permanently:
  $ crosswind completion bash > /etc/bash_completion.d/crosswind

Zsh:
  $ crosswind completion zsh > "${fpath[1]}/_crosswind"
  $ compinit

Fish:
  $ crosswind completion fish | source
  # To load permanently:
  $ crosswind completion fish > ~/.config/fish/completions/crosswind.fish

PowerShell:
  PS> crosswind completion powershell | Out-String | Invoke-Expression
  # To load permanently, add the line above to your PowerShell profile
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(out)
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
