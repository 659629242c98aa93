// Copyright (c) Manav Panchal
//
// Licensed under the SEGV License, Version 1.0
// See LICENSE file for full license text.

package cmd

import (
	"github.com/spf13/cobra"
)

// completionCmd represents the completion command.
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for toggl2slack.

To load completions:

Bash:
  $ source <(toggl2slack completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ toggl2slack completion bash > /etc/bash_completion.d/toggl2slack
  # macOS:
  $ toggl2slack completion bash > $(brew --prefix)/etc/bash_completion.d/toggl2slack

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ toggl2slack completion zsh > "${fpath[1]}/_toggl2slack"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ toggl2slack completion fish | source

  # To load completions for each session, execute once:
  $ toggl2slack completion fish > ~/.config/fish/completions/toggl2slack.fish

PowerShell:
  PS> toggl2slack completion powershell | Out-String | Invoke-Expression
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
			return rootCmd.GenPowerShellCompletionWithDesc(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
