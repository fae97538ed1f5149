package errors

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "schema error",
			code:    "E100",
			wantMsg: "Invalid argument schema",
			wantCat: CategorySchema,
		},
		{
			name:    "validation error",
			code:    "E101",
			wantMsg: "Argument failed validation",
			wantCat: CategoryDecode,
		},
		{
			name:    "encode error",
			code:    "E110",
			wantMsg: "Missing path argument",
			wantCat: CategoryEncode,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "route %q not found", "user")
	if err.Message != `route "user" not found` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Code != "" {
		t.Errorf("Code = %q, want empty", err.Code)
	}
	if err.Error() != `route "user" not found` {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestErrorString(t *testing.T) {
	cause := stderrors.New("must be positive")
	err := New("E101").WithField("page").Wrap(cause)

	want := `E101: Argument failed validation (field "page"): must be positive`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E101") != nil {
		t.Error("FromError(nil) should return nil")
	}

	plain := stderrors.New("boom")
	wrapped := FromError(plain, "E180")
	if wrapped.Code != "E180" || wrapped.Wrapped != plain {
		t.Errorf("FromError(plain) = %+v", wrapped)
	}

	coded := New("E121")
	if got := FromError(coded, "E180"); got != coded {
		t.Error("FromError should return an existing *Error unchanged")
	}
}

func TestCodeOf(t *testing.T) {
	inner := New("E103")
	outer := stderrors.Join(stderrors.New("context"), inner)
	if got := CodeOf(outer); got != "E103" {
		t.Errorf("CodeOf = %q, want E103", got)
	}
	if got := CodeOf(stderrors.New("plain")); got != "" {
		t.Errorf("CodeOf(plain) = %q, want empty", got)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E101").
		WithRoute("/users/:id").
		WithField("id").
		WithSuggestion("Return a default when ok is false").
		Wrap(stderrors.New("not a number"))

	out := err.Format()
	for _, want := range []string{
		"ERROR E101: Argument failed validation",
		"route: /users/:id",
		"field: id",
		"cause: not a number",
		"Hint: Return a default when ok is false",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("E110").WithRoute("/users/:id").WithField("id")
	want := "/users/:id: E110: Missing path argument [id]"
	if got := err.FormatCompact(); got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("E103").WithField("filter").Wrap(stderrors.New("bad json"))

	var decoded map[string]string
	if e := json.Unmarshal([]byte(err.FormatJSON()), &decoded); e != nil {
		t.Fatalf("FormatJSON() is not valid JSON: %v", e)
	}
	if decoded["code"] != "E103" {
		t.Errorf("code = %q", decoded["code"])
	}
	if decoded["field"] != "filter" {
		t.Errorf("field = %q", decoded["field"])
	}
	if decoded["cause"] != "bad json" {
		t.Errorf("cause = %q", decoded["cause"])
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six", 10)
	for _, l := range lines {
		if len(l) > 10 {
			t.Errorf("line %q exceeds width", l)
		}
	}
	if strings.Join(lines, " ") != "one two three four five six" {
		t.Errorf("wrapText lost words: %v", lines)
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Fprint(&buf, New("E121"))
	if !strings.Contains(buf.String(), "ERROR E121: Route not found") {
		t.Errorf("Fprint(*Error) = %q", buf.String())
	}

	buf.Reset()
	Fprint(&buf, stderrors.New("plain failure"))
	if !strings.Contains(buf.String(), "ERROR: plain failure") {
		t.Errorf("Fprint(plain) = %q", buf.String())
	}
}
