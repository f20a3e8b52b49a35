// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kraklabs/sloc/internal/errors"
)

// bashCompletionTemplate is the bash completion script for sloc.
const bashCompletionTemplate = `#!/bin/bash

# Bash completion script for sloc
# Installation:
#   source <(sloc completion bash)
#   Or add to ~/.bashrc:
#   echo 'source <(sloc completion bash)' >> ~/.bashrc

_sloc_completion() {
    local cur prev commands
    commands="scan diff languages completion"

    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    # Global flags
    if [[ ${cur} == -* ]] ; then
        COMPREPLY=( $(compgen -W "--version --config --no-color --quiet" -- ${cur}) )
        return 0
    fi

    # First argument: complete commands
    if [ $COMP_CWORD -eq 1 ]; then
        COMPREPLY=( $(compgen -W "${commands}" -- ${cur}) )
        return 0
    fi

    local cmd="${COMP_WORDS[1]}"
    case "${cmd}" in
        scan)
            if [[ ${cur} == -* ]] ; then
                COMPREPLY=( $(compgen -W "--ext --exclude --ignore-file --no-ignore --follow-symlinks --min-size --max-size --skip-empty --fast --progress --workers --json --csv --no-mmap --mmap-threshold --debug --metrics-addr" -- ${cur}) )
            else
                COMPREPLY=( $(compgen -d -- ${cur}) )
            fi
            ;;
        diff)
            if [[ ${cur} == -* ]] ; then
                COMPREPLY=( $(compgen -W "--base --head --merge-base --staged --working-tree --ext --by-file --json --csv --markdown --max-code-added --max-total-changed --max-files --max-code-added-lang --fail-on-threshold" -- ${cur}) )
            fi
            ;;
        languages)
            if [[ ${cur} == -* ]] ; then
                COMPREPLY=( $(compgen -W "--json" -- ${cur}) )
            fi
            ;;
        completion)
            if [ $COMP_CWORD -eq 2 ]; then
                COMPREPLY=( $(compgen -W "bash zsh fish" -- ${cur}) )
            fi
            ;;
    esac
}

complete -F _sloc_completion sloc
`

// zshCompletionTemplate is the zsh completion script for sloc.
const zshCompletionTemplate = `#compdef sloc

# Zsh completion script for sloc
# Installation:
#   1. Ensure compinit is loaded (add to ~/.zshrc if not present):
#      autoload -U compinit; compinit
#   2. Save this script to a directory in your fpath:
#      sloc completion zsh > "${fpath[1]}/_sloc"
#   3. Reload completions:
#      rm -f ~/.zcompdump; compinit

_sloc() {
    local -a commands
    commands=(
        'scan:Count lines of code under one or more paths'
        'diff:Compute line deltas between git revisions'
        'languages:List supported languages'
        'completion:Generate shell completion script'
    )

    _arguments -C \
        '(- *)--version[Show version and exit]' \
        '--config[Path to .sloc.yaml]:config file:_files -g "*.yaml"' \
        '--no-color[Disable colored output]' \
        '--quiet[Suppress progress output]' \
        '1: :->command' \
        '*:: :->args'

    case $state in
        command)
            _describe 'command' commands
            ;;
        args)
            case $words[1] in
                scan)
                    _arguments \
                        '--ext[Extension allow-list]:extensions:' \
                        '*--exclude[Glob pattern to prune]:pattern:' \
                        '--ignore-file[Extra ignore file]:file:_files' \
                        '--no-ignore[Do not honor .gitignore]' \
                        '--follow-symlinks[Follow symbolic links]' \
                        '--min-size[Minimum file size in bytes]:bytes:' \
                        '--max-size[Maximum file size in bytes]:bytes:' \
                        '--skip-empty[Skip zero-byte files]' \
                        '--fast[Single-bucket count]' \
                        '--workers[Worker pool size]:workers:' \
                        '--json[Output as JSON]' \
                        '--csv[Output as CSV]' \
                        '--no-mmap[Disable memory-mapped reads]' \
                        '--mmap-threshold[Mmap threshold in bytes]:bytes:' \
                        '--debug[Enable debug logging]' \
                        '--metrics-addr[Prometheus metrics address]:address:' \
                        '*:path:_files -/'
                    ;;
                diff)
                    _arguments \
                        '--base[Base revision]:revision:' \
                        '--head[Head revision]:revision:' \
                        '--merge-base[Merge-base revision]:revision:' \
                        '--staged[Diff HEAD against the index]' \
                        '--working-tree[Diff the index against the workdir]' \
                        '--ext[Extension allow-list]:extensions:' \
                        '--by-file[Include per-file rows]' \
                        '--json[Output as JSON]' \
                        '--csv[Output as CSV]' \
                        '--markdown[Output as Markdown]' \
                        '--max-code-added[Cap on added code lines]:lines:' \
                        '--max-total-changed[Cap on absolute net movement]:lines:' \
                        '--max-files[Cap on changed files]:files:' \
                        '*--max-code-added-lang[Per-language cap, Lang\:N]:cap:' \
                        '--fail-on-threshold[Exit non-zero on violation]'
                    ;;
                languages)
                    _arguments \
                        '--json[Output as JSON]'
                    ;;
                completion)
                    _arguments \
                        '1:shell:(bash zsh fish)'
                    ;;
            esac
            ;;
    esac
}

_sloc
`

// fishCompletionTemplate is the fish completion script for sloc.
const fishCompletionTemplate = `# Fish completion script for sloc
# Installation:
#   1. Load completions for current session:
#      sloc completion fish | source
#   2. Install permanently:
#      sloc completion fish > ~/.config/fish/completions/sloc.fish

# Commands
complete -c sloc -f -n "__fish_use_subcommand" -a "scan" -d "Count lines of code"
complete -c sloc -f -n "__fish_use_subcommand" -a "diff" -d "Line deltas between git revisions"
complete -c sloc -f -n "__fish_use_subcommand" -a "languages" -d "List supported languages"
complete -c sloc -f -n "__fish_use_subcommand" -a "completion" -d "Generate shell completion script"

# Global flags
complete -c sloc -l version -d "Show version and exit"
complete -c sloc -l config -d "Path to .sloc.yaml" -r
complete -c sloc -l no-color -d "Disable colored output"
complete -c sloc -l quiet -d "Suppress progress output"

# scan command flags
complete -c sloc -n "__fish_seen_subcommand_from scan" -l ext -d "Extension allow-list" -r
complete -c sloc -n "__fish_seen_subcommand_from scan" -l exclude -d "Glob pattern to prune" -r
complete -c sloc -n "__fish_seen_subcommand_from scan" -l ignore-file -d "Extra ignore file" -r
complete -c sloc -n "__fish_seen_subcommand_from scan" -l no-ignore -d "Do not honor .gitignore"
complete -c sloc -n "__fish_seen_subcommand_from scan" -l follow-symlinks -d "Follow symbolic links"
complete -c sloc -n "__fish_seen_subcommand_from scan" -l min-size -d "Minimum file size" -r
complete -c sloc -n "__fish_seen_subcommand_from scan" -l max-size -d "Maximum file size" -r
complete -c sloc -n "__fish_seen_subcommand_from scan" -l skip-empty -d "Skip zero-byte files"
complete -c sloc -n "__fish_seen_subcommand_from scan" -l fast -d "Single-bucket count"
complete -c sloc -n "__fish_seen_subcommand_from scan" -l workers -d "Worker pool size" -r
complete -c sloc -n "__fish_seen_subcommand_from scan" -l json -d "Output as JSON"
complete -c sloc -n "__fish_seen_subcommand_from scan" -l csv -d "Output as CSV"
complete -c sloc -n "__fish_seen_subcommand_from scan" -l no-mmap -d "Disable memory-mapped reads"
complete -c sloc -n "__fish_seen_subcommand_from scan" -l mmap-threshold -d "Mmap threshold in bytes" -r
complete -c sloc -n "__fish_seen_subcommand_from scan" -l debug -d "Enable debug logging"
complete -c sloc -n "__fish_seen_subcommand_from scan" -l metrics-addr -d "Prometheus metrics address" -r

# diff command flags
complete -c sloc -n "__fish_seen_subcommand_from diff" -l base -d "Base revision" -r
complete -c sloc -n "__fish_seen_subcommand_from diff" -l head -d "Head revision" -r
complete -c sloc -n "__fish_seen_subcommand_from diff" -l merge-base -d "Merge-base revision" -r
complete -c sloc -n "__fish_seen_subcommand_from diff" -l staged -d "Diff HEAD against the index"
complete -c sloc -n "__fish_seen_subcommand_from diff" -l working-tree -d "Diff index against workdir"
complete -c sloc -n "__fish_seen_subcommand_from diff" -l ext -d "Extension allow-list" -r
complete -c sloc -n "__fish_seen_subcommand_from diff" -l by-file -d "Include per-file rows"
complete -c sloc -n "__fish_seen_subcommand_from diff" -l json -d "Output as JSON"
complete -c sloc -n "__fish_seen_subcommand_from diff" -l csv -d "Output as CSV"
complete -c sloc -n "__fish_seen_subcommand_from diff" -l markdown -d "Output as Markdown"
complete -c sloc -n "__fish_seen_subcommand_from diff" -l max-code-added -d "Cap on added code lines" -r
complete -c sloc -n "__fish_seen_subcommand_from diff" -l max-total-changed -d "Cap on net movement" -r
complete -c sloc -n "__fish_seen_subcommand_from diff" -l max-files -d "Cap on changed files" -r
complete -c sloc -n "__fish_seen_subcommand_from diff" -l max-code-added-lang -d "Per-language cap, Lang:N" -r
complete -c sloc -n "__fish_seen_subcommand_from diff" -l fail-on-threshold -d "Exit non-zero on violation"

# languages command flags
complete -c sloc -n "__fish_seen_subcommand_from languages" -l json -d "Output as JSON"

# completion command arguments
complete -c sloc -n "__fish_seen_subcommand_from completion" -f -a "bash" -d "Generate bash completion script"
complete -c sloc -n "__fish_seen_subcommand_from completion" -f -a "zsh" -d "Generate zsh completion script"
complete -c sloc -n "__fish_seen_subcommand_from completion" -f -a "fish" -d "Generate fish completion script"
`

// runCompletion executes the 'completion' CLI command, generating
// shell-specific completion scripts for bash, zsh, or fish shells.
//
// Usage:
//
//	sloc completion [bash|zsh|fish]
//
// Examples:
//
//	sloc completion bash                      Output bash completion script
//	source <(sloc completion bash)            Load bash completions in current shell
//	sloc completion zsh > "${fpath[1]}/_sloc" Install zsh completions permanently
//	sloc completion fish | source             Load fish completions in current shell
func runCompletion(args []string) {
	fs := flag.NewFlagSet("completion", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: sloc completion <shell>

Description:
  Generate shell completion scripts for bash, zsh, or fish.

Arguments:
  shell    Shell type: bash, zsh, or fish (required)

Examples:
  # Load bash completions in current shell
  source <(sloc completion bash)

  # Install bash completions permanently (Linux)
  sloc completion bash > /etc/bash_completion.d/sloc

  # Install zsh completions (macOS with Homebrew)
  sloc completion zsh > $(brew --prefix)/share/zsh/site-functions/_sloc

  # Install fish completions
  sloc completion fish > ~/.config/fish/completions/sloc.fish
`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}

	switch fs.Arg(0) {
	case "bash":
		fmt.Print(bashCompletionTemplate)
	case "zsh":
		fmt.Print(zshCompletionTemplate)
	case "fish":
		fmt.Print(fishCompletionTemplate)
	default:
		errors.FatalError(errors.NewInputError(
			fmt.Sprintf("Unsupported shell %q", fs.Arg(0)),
			"Completion scripts exist for bash, zsh and fish only",
			"Pass one of: bash, zsh, fish",
		), false)
	}
}
