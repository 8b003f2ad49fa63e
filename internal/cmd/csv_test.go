package cmd

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/milluces/milluces-backend/internal/csvio"
)

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, csvio.Report{
		Inserted: 2,
		Updated:  1,
		Failed:   1,
		Errors:   []csvio.RowError{{Row: 4, Message: "email is required"}},
	})
	want := "inserted: 2\nupdated: 1\nfailed: 1\n  row 4: email is required\n"
	if buf.String() != want {
		t.Fatalf("unexpected report:\n%s", buf.String())
	}
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"serve", "export", "import"} {
		c, _, err := rootCmd.Find([]string{name})
		if err != nil || c.Name() != name {
			t.Fatalf("command %q not registered: %v", name, err)
		}
	}
	if _, ok := tables["customers"]; !ok {
		t.Fatalf("customers table missing")
	}
	if _, ok := tables["users"]; !ok {
		t.Fatalf("users table missing")
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clientes.csv")
	err := writeFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "ID,Nombre\n")
		return err
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil || string(b) != "ID,Nombre\n" {
		t.Fatalf("unexpected file %q: %v", b, err)
	}

	boom := errors.New("boom")
	if err := writeFile(path, func(io.Writer) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected write error, got %v", err)
	}
}

func TestWriteFile_ReportsCloseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usuarios.csv")
	err := writeFile(path, func(w io.Writer) error {
		// closing here makes the deferred close fail
		return w.(*os.File).Close()
	})
	if !errors.Is(err, os.ErrClosed) {
		t.Fatalf("expected close error, got %v", err)
	}
}
