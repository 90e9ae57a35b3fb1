package flatfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/personjob/errors"
	"github.com/kbukum/personjob/logger"
	"github.com/kbukum/personjob/storage/local"
)

type row struct {
	Line   int
	Name   string
	Amount int
}

var rowMapper LineMapper[row] = func(line string, n int) (row, error) {
	fs := Tokenizer{Names: []string{"name", "amount"}}.Tokenize(line)
	return row{Line: n, Name: fs.Named("name"), Amount: fs.IntOrZeroNamed("amount")}, nil
}

func newStore(t *testing.T, files map[string]string) *local.Storage {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	s, err := local.NewStorage(dir)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func readAll[T any](t *testing.T, r *Reader[T]) ([]T, error) {
	t.Helper()
	ctx := context.Background()
	if err := r.Open(ctx); err != nil {
		return nil, err
	}
	defer r.Close()
	var out []T
	for {
		item, ok, err := r.Read(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, item)
	}
}

func TestFieldSetIntOrZero(t *testing.T) {
	tests := []struct {
		field string
		want  int
	}{
		{"30", 30},
		{" 30 ", 30},
		{"-5", -5},
		{"+7", 7},
		{"010", 10},
		{"", 0},
		{"abc", 0},
		{"3.5", 0},
		{"0x1F", 0},
		{"1_000", 0},
		{"99999999999999999999999", 0},
	}
	for _, tc := range tests {
		t.Run(tc.field, func(t *testing.T) {
			fs := NewFieldSet([]string{"x", tc.field})
			if got := fs.IntOrZero(1); got != tc.want {
				t.Errorf("IntOrZero(%q) = %d, want %d", tc.field, got, tc.want)
			}
		})
	}
}

func TestFieldSetAbsentFields(t *testing.T) {
	fs := NewFieldSet([]string{"Alice"}, "name", "age")
	if fs.String(1) != "" || fs.String(-1) != "" {
		t.Error("expected absent fields to read as empty")
	}
	if fs.IntOrZero(5) != 0 || fs.IntOrZeroNamed("age") != 0 {
		t.Error("expected absent numeric fields to read as 0")
	}
	if fs.Named("name") != "Alice" || fs.Named("unknown") != "" {
		t.Errorf("unexpected named lookups %q %q", fs.Named("name"), fs.Named("unknown"))
	}
}

func TestTokenizer(t *testing.T) {
	tests := []struct {
		name      string
		tokenizer Tokenizer
		line      string
		want      []string
	}{
		{"comma default", Tokenizer{}, "Alice,30", []string{"Alice", "30"}},
		{"empty line", Tokenizer{}, "", []string{""}},
		{"only delimiter", Tokenizer{}, ",", []string{"", ""}},
		{"extra fields kept", Tokenizer{}, "a,b,c", []string{"a", "b", "c"}},
		{"no quoting rules", Tokenizer{}, `"Smith, J",40`, []string{`"Smith`, ` J"`, "40"}},
		{"custom delimiter", Tokenizer{Delimiter: "|"}, "Bob|25", []string{"Bob", "25"}},
		{"whitespace preserved", Tokenizer{}, " Bob , 25", []string{" Bob ", " 25"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.tokenizer.Tokenize(tc.line).Values()
			if strings.Join(got, "\x00") != strings.Join(tc.want, "\x00") || len(got) != len(tc.want) {
				t.Errorf("Tokenize(%q) = %q, want %q", tc.line, got, tc.want)
			}
		})
	}
}

func TestReaderReadsEveryLine(t *testing.T) {
	store := newStore(t, map[string]string{"in.csv": "Alice,30\nBob,x\n,\n\nCarol\n"})
	r := NewReader(store, "in.csv", rowMapper, WithLogger(logger.NewNop()))

	got, err := readAll(t, r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := []row{
		{1, "Alice", 30},
		{2, "Bob", 0},
		{3, "", 0},
		{4, "", 0},
		{5, "Carol", 0},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d rows, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
	if r.Name() != "in.csv" || r.Path() != "in.csv" {
		t.Errorf("expected the path as default name, got %q", r.Name())
	}
}

func TestReaderHandlesCRLFAndMissingTrailingNewline(t *testing.T) {
	store := newStore(t, map[string]string{"in.csv": "Alice,30\r\nBob,25"})
	got, err := readAll(t, NewReader(store, "in.csv", rowMapper, WithLogger(logger.NewNop())))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Amount != 30 || got[1].Name != "Bob" || got[1].Amount != 25 {
		t.Errorf("unexpected rows %+v", got)
	}
}

func TestReaderLineText(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"leading byte order mark", "\ufeffJill,23\nJoe,34\n", []string{"Jill", "Joe"}},
		{"byte order mark only stripped from the first line", "Jill,23\n\ufeffJoe,34\n", []string{"Jill", "\ufeffJoe"}},
		{"invalid utf-8 bytes", "J\xffi\xfe\xfdll,23\n", []string{"J\ufffdi\ufffd\ufffdll"}},
		{"valid multibyte text untouched", "Zoë,5\n", []string{"Zoë"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newStore(t, map[string]string{"in.csv": tc.content})
			got, err := readAll(t, NewReader(store, "in.csv", rowMapper, WithLogger(logger.NewNop())))
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d rows, got %+v", len(tc.want), got)
			}
			for i, name := range tc.want {
				if got[i].Name != name {
					t.Errorf("row %d: got name %q, want %q", i, got[i].Name, name)
				}
			}
		})
	}
}

func TestReaderEmptyResource(t *testing.T) {
	store := newStore(t, map[string]string{"in.csv": ""})
	got, err := readAll(t, NewReader(store, "in.csv", rowMapper, WithLogger(logger.NewNop())))
	if err != nil || len(got) != 0 {
		t.Fatalf("expected no rows, got %v %v", got, err)
	}
}

func TestReaderSkipsHeaderAndComments(t *testing.T) {
	store := newStore(t, map[string]string{"in.csv": "name,amount\n# generated\nAlice,30\n#Bob,25\nCarol,7\n"})
	var skipped []string
	r := NewReader(store, "in.csv", rowMapper,
		WithName("csv-reader"),
		WithLinesToSkip(1),
		WithSkippedLinesCallback(func(line string) { skipped = append(skipped, line) }),
		WithComments("#"),
		WithLogger(logger.NewNop()),
	)

	got, err := readAll(t, r)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != (row{3, "Alice", 30}) || got[1] != (row{5, "Carol", 7}) {
		t.Errorf("unexpected rows %+v", got)
	}
	if len(skipped) != 1 || skipped[0] != "name,amount" {
		t.Errorf("unexpected skipped lines %v", skipped)
	}
	if r.Name() != "csv-reader" {
		t.Errorf("unexpected name %q", r.Name())
	}
}

func TestReaderMissingResource(t *testing.T) {
	store := newStore(t, nil)
	r := NewReader(store, "missing.csv", rowMapper, WithLogger(logger.NewNop()))
	err := r.Open(context.Background())
	if !errors.IsCode(err, errors.ErrCodeResourceNotFound) {
		t.Fatalf("expected RESOURCE_NOT_FOUND, got %v", err)
	}
	if !strings.Contains(err.Error(), "missing.csv") {
		t.Errorf("expected the path in the error, got %v", err)
	}
}

func TestReaderMapperError(t *testing.T) {
	store := newStore(t, map[string]string{"in.csv": "ok\nbad\n"})
	mapper := func(line string, _ int) (string, error) {
		if line == "bad" {
			return "", fmt.Errorf("cannot map")
		}
		return line, nil
	}
	got, err := readAll(t, NewReader(store, "in.csv", LineMapper[string](mapper), WithLogger(logger.NewNop())))
	if !errors.IsCode(err, errors.ErrCodeReadFailed) {
		t.Fatalf("expected READ_FAILED, got %v", err)
	}
	appErr, _ := errors.As(err)
	if appErr.Details["line"] != 2 {
		t.Errorf("expected line 2 in details, got %v", appErr.Details)
	}
	if len(got) != 1 {
		t.Errorf("expected the first line before the failure, got %v", got)
	}
}

func TestReaderLineTooLong(t *testing.T) {
	store := newStore(t, map[string]string{"in.csv": "short\n" + strings.Repeat("x", 100) + "\n"})
	_, err := readAll(t, NewReader(store, "in.csv", rowMapper, WithMaxLineSize(16), WithLogger(logger.NewNop())))
	if !errors.IsCode(err, errors.ErrCodeReadFailed) {
		t.Fatalf("expected READ_FAILED for an oversized line, got %v", err)
	}
}

func TestReaderLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, map[string]string{"in.csv": "a,1\nb,2\n"})
	r := NewReader(store, "in.csv", rowMapper, WithLogger(logger.NewNop()))

	if _, _, err := r.Read(ctx); err == nil {
		t.Error("expected an error reading before Open")
	}
	if err := r.Open(ctx); err != nil {
		t.Fatal(err)
	}
	if err := r.Open(ctx); err == nil {
		t.Error("expected an error opening twice")
	}
	first, _, _ := r.Read(ctx)
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("expected a second Close to be a no-op, got %v", err)
	}

	if err := r.Open(ctx); err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	again, _, _ := r.Read(ctx)
	if again != first || r.LineNumber() != 1 {
		t.Errorf("expected re-open to restart, got %+v at line %d", again, r.LineNumber())
	}
}

func TestDelimitedMapper(t *testing.T) {
	m := Delimited(Tokenizer{Delimiter: ";"}, func(fs FieldSet) string {
		return fs.String(1) + "/" + fs.String(0)
	})
	got, err := m("a;b", 1)
	if err != nil || got != "b/a" {
		t.Errorf("got %q, %v", got, err)
	}
}
