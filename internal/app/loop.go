package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/specialistvlad/echoplug/internal/ctxlog"
	"github.com/specialistvlad/echoplug/internal/render"
)

// Prompt is written before every read.
const Prompt = "Enter a message> "

// ListCommand prints the resolvable identifiers instead of compiling.
const ListCommand = ":list"

// Sources of a printed message.
const (
	SourceCompiled = "from plugin"
	SourceCached   = "cached plugin"
)

const maxLineSize = 1 << 20

// Run reads lines until end of input. Each line is handled by Step, with the
// last successful identifier carried from one iteration to the next. A
// resolution failure ends the run with that error.
func (a *App) Run(ctx context.Context) error {
	a.logger.Debug("Interactive loop started.")

	scanner := bufio.NewScanner(a.streams.In)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	last := ""
	for {
		fmt.Fprint(a.streams.Out, Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(a.streams.Out)
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			a.logger.Debug("End of input, interactive loop finished.")
			return nil
		}

		next, err := a.Step(ctx, scanner.Text(), last)
		if err != nil {
			return err
		}
		last = next
	}
}

// Step handles one input line and returns the identifier to remember for the
// next empty line. Only resolution failures and cancellation are returned as
// errors; template and compile failures are reported on the error stream and
// leave last unchanged. Logs go to the app's logger whatever ctx carries.
func (a *App) Step(ctx context.Context, line, last string) (string, error) {
	start := time.Now()
	ctx = ctxlog.WithLogger(ctx, a.logger)

	switch line {
	case "":
		m, err := a.registry.Resolve(last)
		if err != nil {
			return last, err
		}
		a.report(SourceCached, m.GetMessage(), time.Since(start))
		return last, nil
	case ListCommand:
		for _, id := range a.registry.IDs() {
			fmt.Fprintln(a.streams.Out, id)
		}
		return last, nil
	}

	id := a.newID()
	ctx = ctxlog.With(ctx, "id", id)
	logger := ctxlog.FromContext(ctx)

	src, err := a.renderer.Render(render.Message{ID: id, Message: line})
	if err != nil {
		logger.Error("Failed to render source.", "error", err)
		fmt.Fprintln(a.streams.Err, err)
		return last, nil
	}

	res, err := a.compiler.Compile(ctx, id, src)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return last, err
		}
		logger.Error("Failed to compile.", "error", err)
		fmt.Fprintln(a.streams.Err, err)
		return last, nil
	}
	if !res.Succeeded() {
		logger.Info("Compilation failed.", "return_code", res.ReturnCode)
		fmt.Fprintln(a.streams.Err, strings.Join(res.Output, "\n"))
		return last, nil
	}

	if err := a.registry.Refresh(ctx); err != nil {
		logger.Warn("Refresh reported errors for some artifacts.", "error", err)
	}
	m, err := a.registry.Resolve(id)
	if err != nil {
		return last, err
	}
	a.report(SourceCompiled, m.GetMessage(), time.Since(start))
	logger.Info("Message compiled and resolved.", "compile_duration", res.Duration)
	return id, nil
}

func (a *App) report(source, msg string, elapsed time.Duration) {
	fmt.Fprintf(a.streams.Out, "%s. [Message: %s, Time: %s]\n", source, msg, elapsed)
}
