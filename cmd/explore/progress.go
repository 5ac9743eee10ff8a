package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"explore-engine/internal/config"
	"explore-engine/internal/notify"
)

func progress(ctx context.Context, opts options, out io.Writer) error {
	s, err := openSession(opts, os.Stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	c, err := s.controller(ctx, notify.Discard{}, nil)
	if err != nil {
		return err
	}
	vis := c.Visibility()
	fmt.Fprintf(out, "discovered %d of %d collectibles\n", vis.Count(), vis.Len())
	for _, id := range vis.DiscoveredIDs() {
		fmt.Fprintf(out, "  #%d\n", id)
	}
	return nil
}

// writeConfig saves the merged configuration so overrides can be frozen into a file.
func writeConfig(opts options, path string, out io.Writer) error {
	if path == "" {
		return fmt.Errorf("config: -out is required")
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if err := config.Save(path, cfg); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintln(out, "config written to", path)
	return nil
}

func reset(ctx context.Context, opts options, out io.Writer) error {
	s, err := openSession(opts, os.Stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	c, err := s.controller(ctx, notify.Discard{}, nil)
	if err != nil {
		return err
	}
	if err := c.ResetProgress(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "progress cleared")
	return nil
}
