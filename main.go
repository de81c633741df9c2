// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/csilog/csilog/internal/command"
	"github.com/csilog/csilog/internal/config"
	"github.com/csilog/csilog/internal/log"
	"github.com/csilog/csilog/internal/util"
	"github.com/csilog/csilog/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// processCommandArgs handles command-specific argument processing.
func processCommandArgs(args []string) []string {
	// Expand any @set argument first so set entries behave like CLI args.
	args = processSetOnly(args)
	log.Debugf("args after set processing: args=%v", args)

	if len(args) > 1 && args[1] == "sq" {
		args = processSqArgs(args)
	} else {
		args = processOtherArgs(args)
	}

	// A flag can appear both in a set and on the command line; last wins.
	return deduplicateFlags(args)
}

// processSqArgs handles argument processing for the sq command, which takes
// a snapshot export file rather than a root directory.
func processSqArgs(args []string) []string {
	if len(args) > 2 && !strings.HasPrefix(args[2], "-") && !isExistingFile(args[2]) {
		fmt.Fprintf(os.Stderr, "no such snapshot file: %s\n", args[2])
	}
	return args
}

// processOtherArgs handles argument processing for the dq and hq commands.
func processOtherArgs(args []string) []string {
	rootDir, _ := os.Getwd()
	if len(args) > 2 {
		if _, err := util.ParseRootDir(args[2]); err == nil {
			rootDir = args[2]
		}
	}
	if len(args) == 2 {
		args = append(args, rootDir)
	} else if args[2] != rootDir {
		args = append(args[:2], append([]string{rootDir}, args[2:]...)...)
	}
	return args
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
		return 2
	}

	return 0
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	// If --help appears anywhere, skip command processing and let the CLI handle it.
	helpFound := false
	for _, a := range args {
		if a == "--help" || a == "-h" {
			helpFound = true
			break
		}
	}

	if !helpFound {
		args = processCommandArgs(args)
	}

	return initAndRunApp(args)
}

// isExistingFile checks if the given path exists and is a file.
func isExistingFile(path string) bool {
	if _, err := os.Stat(path); err == nil {
		return true
	}
	return false
}

// processSetOnly handles the @set logic for all commands, expanding set
// arguments at the @set position.
func processSetOnly(args []string) []string {
	// Look for an explicit @set argument starting from index 2.
	idx := 2
	set := "defaults"
	removeIdx := -1
	for i, a := range args[idx:] {
		if strings.HasPrefix(a, "@") {
			set = a[1:]
			removeIdx = idx + i
			break
		}
	}
	if removeIdx != -1 {
		// Remove the @set argument.
		args = append(args[:removeIdx], args[removeIdx+1:]...)
		// Expand the set arguments at the removeIdx position.
		setArgs, _ := config.GetStringSlice(args[1] + "." + set)
		for _, arg := range setArgs {
			parts := strings.Fields(arg)
			args = append(args[:removeIdx], append(parts, args[removeIdx:]...)...)
			removeIdx += len(parts)
		}
	}
	return args
}

// deduplicateFlags drops earlier occurrences of a repeated flag so the last
// one wins. Values are dropped along with their flag; positional arguments
// are preserved in place.
func deduplicateFlags(args []string) []string {
	if len(args) <= 2 {
		return args
	}

	type token struct {
		flag  string // flag name, "" for positionals
		parts []string
	}

	var tokens []token
	for i := 2; i < len(args); {
		a := args[i]
		if !strings.HasPrefix(a, "-") {
			tokens = append(tokens, token{parts: []string{a}})
			i++
			continue
		}
		name := a
		if eq := strings.Index(a, "="); eq != -1 {
			name = a[:eq]
		}
		size := 1
		if name == a && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			size = 2
		}
		tokens = append(tokens, token{flag: name, parts: args[i : i+size]})
		i += size
	}

	lastSeen := make(map[string]int, len(tokens))
	for i, tok := range tokens {
		if tok.flag != "" {
			lastSeen[tok.flag] = i
		}
	}

	result := make([]string, 0, len(args))
	result = append(result, args[:2]...)
	for i, tok := range tokens {
		if tok.flag != "" && lastSeen[tok.flag] != i {
			continue
		}
		result = append(result, tok.parts...)
	}
	return result
}
