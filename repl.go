package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
)

const (
	consolePrompt = "> "
	watchDebounce = 200 * time.Millisecond
)

var errorColor = color.New(color.FgRed)

// runConsole reads commands line by line until EOF, "exit" or ctx is done.
// Failed commands are reported and do not stop the console.
func runConsole(ctx context.Context, c *console, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	fmt.Fprint(out, consolePrompt)
	for sc.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(sc.Text())
		switch line {
		case "exit", "quit":
			return nil
		case "help":
			fmt.Fprintln(out, strings.Join(commandNames(), " "))
		default:
			res, err := c.Run(ctx, line)
			if err != nil {
				errorColor.Fprintf(out, "error: %v\n", err)
			} else if res != "" {
				fmt.Fprintln(out, res)
			}
		}
		fmt.Fprint(out, consolePrompt)
	}
	return errors.WithStack(sc.Err())
}
