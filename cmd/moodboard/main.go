// Moodboard - AI colour moodboards and parent-message replies
//
// Moodboard extracts a colour palette from an image and asks Google Gemini
// for a brand brief, and drafts replies to difficult parent messages.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import "github.com/jmylchreest/moodboard/internal/cli"

func main() {
	cli.Execute()
}
