package output

import (
	"bytes"
	"context"
	"os"
	"testing"
)

func TestFromContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := FromContext(WithPrinter(context.Background(), &buf))
	if p.Writer() != &buf {
		t.Error("Writer() should return the buffer passed to WithPrinter")
	}

	if FromContext(context.Background()).Writer() != os.Stdout {
		t.Error("Writer() should default to os.Stdout")
	}
}

func TestPrinter_Text(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	p := New(&buf)

	p.Print("head", " ")
	p.Printf("%s\n", "refs/heads/main")
	p.Println("bare:", false)

	if got, want := buf.String(), "head refs/heads/main\nbare: false\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestPrinter_JSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	p := New(&buf)

	type info struct {
		Path string `json:"path"`
		Bare bool   `json:"bare"`
	}
	if err := p.JSON(info{Path: "/r/.git/", Bare: false}); err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	want := "{\n  \"path\": \"/r/.git/\",\n  \"bare\": false\n}\n"
	if got := buf.String(); got != want {
		t.Errorf("JSON() = %q, want %q", got, want)
	}
}

func TestPrinter_IsTerminal(t *testing.T) {
	t.Parallel()
	if New(&bytes.Buffer{}).IsTerminal() {
		t.Error("a buffer is not a terminal")
	}

	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	p := NewTerminal(f)
	if p.IsTerminal() {
		t.Error("a regular file is not a terminal")
	}

	// Styling is stripped when the destination is not a terminal.
	p.Print("\x1b[1mbold\x1b[0m\n")
	data, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "bold\n" {
		t.Errorf("file content = %q, want escape codes stripped", data)
	}

	ctx := WithTerminalPrinter(context.Background(), p)
	if FromContext(ctx) != p {
		t.Error("WithTerminalPrinter did not store the printer")
	}
}
