// Copyright 2025 The Linkmatch Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the linkmatch command line: linkage counting, match-list
queries and a MessagePack IPC server over a link grammar matching engine.

Note: This is a BETA release. APIs and functionality may rapidly change.

Linkmatch builds per-word hash tables of connector chains for a sentence and
answers "which disjuncts of word w can link to lc on the left and/or rc on the
right" in time proportional to the candidates, not to every disjunct of the
word. A memoising counter on top of it counts complete linkages.

Sentences are read from corpus files in YAML or MessagePack, optionally
zstd-compressed:

	sentences:
	  - name: dogs chase cats
	    words:
	      - word: LEFT-WALL
	        disjuncts: [{conns: Wd+}]
	      - word: dogs
	        disjuncts: [{conns: Wd- Sp+}]
	      ...

# Usage

Count the linkages of every sentence of a corpus:

	linkmatch count corpus.yaml --workers 4

Ask for one match list:

	linkmatch match corpus.yaml -s 0 -w 2 --lc Sp --lw 1 --rc O --rw 3

Explore a corpus interactively:

	linkmatch repl corpus.yaml

Serve MessagePack requests on stdin/stdout:

	linkmatch serve --debug

Convert between fixture formats:

	linkmatch convert corpus.yaml corpus.mpk.zst

# Configuration

Runtime configuration is read from a TOML file, ~/.config/linkmatch/config.toml
unless --config names another one:

	[matcher]
	initial_list_size = 4096
	growth_factor = 2
	lower_match = "strict"

	[search]
	max_words = 250
	timeout_ms = 30000

	[server]
	cache_size = 64

	[batch]
	workers = 0

The config file is created with defaults if it doesn't exist.
*/
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/linkmatch/cmd/linkmatch/cmd"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

func main() {
	sigHandler()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
