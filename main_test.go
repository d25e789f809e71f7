package main

import (
	"io"
	"os"
	"strings"
	"testing"
)

func TestBoilerPlate_PointsAtProjectRepository(t *testing.T) {
	stdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = stdout }()

	boilerPlate()
	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading banner: %v", err)
	}

	banner := string(out)
	if !strings.Contains(banner, "https://github.com/intuitionamiga/FlickerTone") {
		t.Fatalf("banner does not name this repository:\n%s", banner)
	}
	if !strings.Contains(banner, "FlickerTone") || !strings.Contains(banner, "License: GPLv3 or later") {
		t.Fatalf("banner missing title or license line:\n%s", banner)
	}
}
