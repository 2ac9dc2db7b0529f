package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestRunConsole(t *testing.T) {
	cmd, _ := newTestCommandContext(t)
	c := &console{cmd: cmd}

	in := strings.NewReader("load plane.pcd\nfoo\nhelp\nexit\nload plane.pcd\n")
	var out bytes.Buffer
	if err := runConsole(context.Background(), c, in, &out); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(out.String(), "\n")
	expected := []string{
		consolePrompt + "1000 points",
		consolePrompt + "error: invalid command",
		consolePrompt + strings.Join(commandNames(), " "),
		consolePrompt,
	}
	if len(lines) != len(expected) {
		t.Fatalf("Expected %d lines, got %d:\n%s", len(expected), len(lines), out.String())
	}
	for i := range expected {
		if lines[i] != expected[i] {
			t.Errorf("Line %d: expected %q, got %q", i, expected[i], lines[i])
		}
	}
}

func TestRunConsole_Canceled(t *testing.T) {
	cmd, _ := newTestCommandContext(t)
	c := &console{cmd: cmd}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	if err := runConsole(ctx, c, strings.NewReader("load plane.pcd\n"), &out); err != nil {
		t.Fatal(err)
	}
	if _, ok := cmd.PointCloud(); ok {
		t.Error("Commands must not run after cancel")
	}
}
