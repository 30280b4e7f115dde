// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logging

import (
	"os"
)

// Ansi terminal color codes.
const (
	csi      = "\x1B["
	white    = "37m"
	green    = "32m"
	byellow  = "33;1m"
	bred     = "31;1m"
	bmagenta = "35;1m"
)

// Maps log level to color sequence.
var colorMap = map[int]string{
	DEBUG: white,
	INFO:  green,
	WARN:  byellow,
	ERROR: bred,
	FATAL: bmagenta,
}

// Console is a writer that prints log events to stdout, optionally colored
// by level with ANSI escape codes.
type Console struct {
	writer *os.File
	color  bool
}

// NewConsole creates and returns a new Console writer with color enabled.
func NewConsole() *Console {

	return &Console{writer: os.Stdout, color: true}
}

// NewConsolePlain creates a Console writer with color disabled, for
// redirecting log output to a file or CI console that does not render ANSI.
func NewConsolePlain() *Console {

	return &Console{writer: os.Stdout, color: false}
}

// Write writes the provided logger event to the console.
func (w *Console) Write(event *Event) {

	if w.color {
		w.writer.Write([]byte(csi))
		w.writer.Write([]byte(colorMap[event.Level]))
	}
	w.writer.Write([]byte(event.Line))
	if w.color {
		w.writer.Write([]byte(csi))
		w.writer.Write([]byte(white))
	}
}
