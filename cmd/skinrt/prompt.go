package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chzyer/readline"

	"github.com/BrandonKowalski/skinrt/pkg/skins"
	"github.com/BrandonKowalski/skinrt/pkg/skins/platform/headless"
	"github.com/BrandonKowalski/skinrt/pkg/skins/theme"
)

// discoverSkins returns the directories under dir holding a skin definition.
func discoverSkins(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read skins dir: %w", err)
	}

	var found []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if _, err := os.Stat(filepath.Join(path, theme.DefinitionFile)); err == nil {
			found = append(found, path)
		}
	}
	sort.Strings(found)
	return found, nil
}

// validateSkin loads path against an in-memory backend and returns the skin
// name.
func validateSkin(path string) (string, error) {
	backend := headless.New()
	defer backend.Close()

	t, err := theme.NewLoader(backend).Load(path)
	if err != nil {
		return "", err
	}
	defer t.Close()
	return t.Name, nil
}

// newPrompt asks for a skin path on the terminal, completing the skins found
// in dir.
func newPrompt(dir string) skins.PromptFunc {
	return func(ctx context.Context, lastErr error) (string, error) {
		candidates, _ := discoverSkins(dir)

		items := make([]readline.PrefixCompleterInterface, 0, len(candidates))
		for _, c := range candidates {
			items = append(items, readline.PcItem(c))
		}

		rl, err := readline.NewEx(&readline.Config{
			Prompt:       skins.T("PromptInput"),
			AutoComplete: readline.NewPrefixCompleter(items...),
		})
		if err != nil {
			return "", err
		}
		defer rl.Close()

		stop := context.AfterFunc(ctx, func() { _ = rl.Close() })
		defer stop()

		out := rl.Stdout()
		fmt.Fprintln(out, skins.T("PromptTitle"))
		if lastErr != nil {
			fmt.Fprintf(out, "  %v\n", lastErr)
		}
		if len(candidates) > 0 {
			fmt.Fprintln(out, skins.T("PromptCandidates", map[string]any{"Dir": dir}))
			for _, c := range candidates {
				fmt.Fprintf(out, "  %s\n", c)
			}
		}

		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) || ctx.Err() != nil {
			return "", skins.ErrCancelled
		}
		if err != nil {
			return "", err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			return "", skins.ErrCancelled
		}
		return line, nil
	}
}
