package args

import (
	"errors"
	"math"
	"net/url"
	"reflect"
	"testing"

	"github.com/vango-dev/typedroute/pkg/routepath"
)

type userArgs struct {
	ID     string  `arg:"id"`
	Tab    string  `arg:"tab"`
	Page   float64 `arg:"page"`
	Draft  bool    `arg:"draft"`
	Anchor string  `arg:"anchor"`
	From   any     `arg:"from"`
}

var userSchema = MustSchema[userArgs](
	Path("id", String, Required[string]()),
	Query("tab", String, Default("overview")),
	Query("page", Number, Default(1.0)),
	Query("draft", Boolean, Default(false)),
	Hash("anchor", String, Default("")),
	State("from", Passthrough, Any()),
)

var userPattern = routepath.MustParse("/users/:id")

func TestEncode(t *testing.T) {
	from := map[string]any{"list": "recent"}
	target, err := userSchema.EncodePattern(userPattern, userArgs{
		ID:     "a b",
		Tab:    "x&y",
		Page:   2.5,
		Draft:  true,
		Anchor: "sec 1",
		From:   from,
	})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	want := "/users/a%20b?tab=x%26y&page=2.5&draft=true#sec%201"
	if target.Path != want {
		t.Errorf("Path = %q, want %q", target.Path, want)
	}
	if got := target.State["from"]; !reflect.DeepEqual(got, from) {
		t.Errorf("State[from] = %v, want %v", got, from)
	}
}

func TestEncodeOmitsUndefined(t *testing.T) {
	target, err := userSchema.Encode("/users/:id", userArgs{ID: "7", Tab: "a", Page: 1})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if target.Path != "/users/7?tab=a&page=1&draft=false" {
		t.Errorf("Path = %q", target.Path)
	}
	if target.State != nil {
		t.Errorf("State = %v, want nil", target.State)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []userArgs{
		{ID: "1", Tab: "overview", Page: 1},
		{ID: "a b/c?"[:3], Tab: "x&y=z", Page: -3.25, Draft: true, Anchor: "top"},
		{ID: "ünï", Tab: "+plus+", Page: 1e21, Anchor: "a#b?c", From: "home"},
		{ID: "%41", Tab: "100%", Page: 0.1, From: 42},
	}

	for _, in := range tests {
		t.Run(in.ID, func(t *testing.T) {
			target, err := userSchema.EncodePattern(userPattern, in)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			snap, err := SnapshotFromTarget(userPattern, target)
			if err != nil {
				t.Fatalf("SnapshotFromTarget(%q) error = %v", target.Path, err)
			}
			out, err := userSchema.Decode(snap)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !reflect.DeepEqual(in, out) {
				t.Errorf("round trip via %q\n got  %+v\n want %+v", target.Path, out, in)
			}
		})
	}
}

func TestDecodeAbsentQueryNumber(t *testing.T) {
	var calls []bool
	type pageArgs struct {
		Page float64
	}
	schema := MustSchema[pageArgs](Query("page", Number, func(v any, ok bool) (any, error) {
		calls = append(calls, ok)
		if !ok {
			if v != nil {
				t.Errorf("absent value = %v, want nil", v)
			}
			return 7.0, nil
		}
		return v, nil
	}))

	for _, query := range []string{"", "?other=1", "?page="} {
		calls = nil
		got, err := schema.Decode(Snapshot{Query: query})
		if err != nil {
			t.Fatalf("Decode(%q) error = %v", query, err)
		}
		if got.Page != 7 || math.IsNaN(got.Page) {
			t.Errorf("Decode(%q).Page = %v, want 7", query, got.Page)
		}
		if len(calls) != 1 || calls[0] {
			t.Errorf("Decode(%q) validator calls = %v, want [false]", query, calls)
		}
	}
}

func TestDecodeNumberNaNRejected(t *testing.T) {
	type pageArgs struct {
		Page float64
	}
	schema := MustSchema[pageArgs](Query("page", Number, Default(1.0)))
	_, err := schema.Decode(Snapshot{Query: "page=abc"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Decode() error = %v, want ErrValidation", err)
	}
}

func TestDecodeBoolean(t *testing.T) {
	type flagArgs struct {
		Draft bool
	}
	called := false
	schema := MustSchema[flagArgs](Query("draft", Boolean, func(v any, ok bool) (any, error) {
		called = true
		return Default(false)(v, ok)
	}))

	got, err := schema.Decode(Snapshot{Query: "draft=true"})
	if err != nil {
		t.Fatalf("Decode(true) error = %v", err)
	}
	if !got.Draft {
		t.Error("Decode(true).Draft = false")
	}

	called = false
	_, err = schema.Decode(Snapshot{Query: "draft=yes"})
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("Decode(yes) error = %v, want ErrMalformed", err)
	}
	if called {
		t.Error("validator called for malformed boolean")
	}
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Code != CodeMalformedBoolean || fe.Field != "draft" {
		t.Errorf("Decode(yes) error = %#v, want E102 for draft", err)
	}

	_, err = schema.Decode(Snapshot{Query: "draft=1"})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Decode(1) error = %v, want ErrValidation", err)
	}
}

type filter struct {
	A int    `json:"a"`
	Q string `json:"q,omitempty"`
}

func TestDecodeStructuredQuery(t *testing.T) {
	type listArgs struct {
		Filter filter
	}
	schema := MustSchema[listArgs](Query("filter", Structured, JSON[filter]()))

	plain := "filter=" + url.QueryEscape(`{"a":1}`)
	escaped := "filter=" + url.QueryEscape(`%7B%22a%22%3A1%7D`)

	for _, query := range []string{plain, escaped} {
		got, err := schema.Decode(Snapshot{Query: query})
		if err != nil {
			t.Fatalf("Decode(%q) error = %v", query, err)
		}
		if got.Filter.A != 1 {
			t.Errorf("Decode(%q).Filter = %+v, want {A:1}", query, got.Filter)
		}
	}

	raw := MustSchema[Values](Query("filter", Structured, Any()))
	a, err := raw.Decode(Snapshot{Query: plain})
	if err != nil {
		t.Fatal(err)
	}
	b, err := raw.Decode(Snapshot{Query: escaped})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("plain %v != escaped %v", a, b)
	}
	if want := (Values{"filter": map[string]any{"a": float64(1)}}); !reflect.DeepEqual(a, want) {
		t.Errorf("Decode = %v, want %v", a, want)
	}

	_, err = schema.Decode(Snapshot{Query: "filter=" + url.QueryEscape("%7Bbad")})
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("Decode(bad) error = %v, want ErrMalformed", err)
	}
	if got := Coded(err); got == nil || got.Code != CodeMalformedJSON {
		t.Errorf("Coded(bad) = %v, want %s", got, CodeMalformedJSON)
	}
}

func TestStructuredQueryRoundTrip(t *testing.T) {
	type listArgs struct {
		Filter filter
	}
	schema := MustSchema[listArgs](Query("filter", Structured, JSON[filter]()))
	p := routepath.MustParse("/list")

	in := listArgs{Filter: filter{A: 42}}
	target, err := schema.EncodePattern(p, in)
	if err != nil {
		t.Fatal(err)
	}
	snap, err := SnapshotFromTarget(p, target)
	if err != nil {
		t.Fatal(err)
	}
	out, err := schema.Decode(snap)
	if err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestDecodeHash(t *testing.T) {
	var seen []any
	record := func(v any, ok bool) (any, error) {
		if !ok {
			seen = append(seen, nil)
			return "", nil
		}
		seen = append(seen, v)
		return v, nil
	}
	type hashArgs struct {
		First  string
		Second string
	}
	schema := MustSchema[hashArgs](
		Hash("first", String, record),
		Hash("second", String, record),
	)

	got, err := schema.Decode(Snapshot{Hash: "#foo"})
	if err != nil {
		t.Fatal(err)
	}
	if got.First != "foo" || got.Second != "foo" {
		t.Errorf("Decode(#foo) = %+v, want both foo", got)
	}

	seen = nil
	if _, err := schema.Decode(Snapshot{Hash: ""}); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 2 || seen[0] != nil || seen[1] != nil {
		t.Errorf("empty hash values = %v, want absent", seen)
	}
}

func TestStructuredHash(t *testing.T) {
	type viewArgs struct {
		View filter
	}
	schema := MustSchema[viewArgs](Hash("view", Structured, JSON[filter]()))
	p := routepath.MustParse("/")

	target, err := schema.EncodePattern(p, viewArgs{View: filter{A: 3}})
	if err != nil {
		t.Fatal(err)
	}
	if target.Path != "/#%7B%22a%22:3%7D" {
		t.Errorf("Path = %q", target.Path)
	}

	for _, q := range []string{"100%", "a%41b", "x#y", "1+1", "a b", "%25"} {
		t.Run("round trip "+q, func(t *testing.T) {
			in := viewArgs{View: filter{A: 1, Q: q}}
			target, err := schema.EncodePattern(p, in)
			if err != nil {
				t.Fatal(err)
			}
			snap, err := SnapshotFromTarget(p, target)
			if err != nil {
				t.Fatal(err)
			}
			got, err := schema.Decode(snap)
			if err != nil {
				t.Fatalf("Decode(%q) error: %v", snap.Hash, err)
			}
			if got != in {
				t.Errorf("Decode(%q) = %+v, want %+v", snap.Hash, got, in)
			}
		})
	}

	tests := []struct {
		hash string
		want filter
	}{
		{"#%7B%22a%22%3A5%7D", filter{A: 5}},
		{"%7B%22a%22:5,%22q%22:%22100%25%22%7D", filter{A: 5, Q: "100%"}},
		{`{"a":6,"q":"1+1"}`, filter{A: 6, Q: "1+1"}},
	}
	for _, tt := range tests {
		t.Run("escaped "+tt.hash, func(t *testing.T) {
			got, err := schema.Decode(Snapshot{Hash: tt.hash})
			if err != nil {
				t.Fatal(err)
			}
			if got.View != tt.want {
				t.Errorf("Decode(%q) = %+v, want %+v", tt.hash, got.View, tt.want)
			}
		})
	}
}

func TestDecodeHashBadEscape(t *testing.T) {
	type hashArgs struct {
		Section string
	}
	schema := MustSchema[hashArgs](Hash("section", String, Default("")))

	_, err := schema.Decode(Snapshot{Hash: "#100%"})
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("Decode(#100%%) error = %v, want ErrMalformed", err)
	}
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Code != CodeMalformedEscape || fe.Field != "section" {
		t.Errorf("error = %#v", err)
	}

	got, err := schema.Decode(Snapshot{Hash: "#100%25%20off"})
	if err != nil {
		t.Fatal(err)
	}
	if got.Section != "100% off" {
		t.Errorf("Section = %q, want decoded once", got.Section)
	}
}

type payload struct {
	N int
}

func TestStatePassThrough(t *testing.T) {
	type stateArgs struct {
		Item *payload
	}
	schema := MustSchema[stateArgs](State("item", Passthrough, Any()))
	p := routepath.MustParse("/items")

	item := &payload{N: 1}
	target, err := schema.EncodePattern(p, stateArgs{Item: item})
	if err != nil {
		t.Fatal(err)
	}
	if target.Path != "/items" {
		t.Errorf("Path = %q, want /items", target.Path)
	}
	if got, ok := target.State["item"].(*payload); !ok || got != item {
		t.Fatalf("State[item] = %#v, want the same pointer", target.State["item"])
	}

	out, err := schema.Decode(Snapshot{State: target.State})
	if err != nil {
		t.Fatal(err)
	}
	if out.Item != item {
		t.Errorf("Decode().Item = %p, want %p", out.Item, item)
	}

	target, err = schema.EncodePattern(p, stateArgs{})
	if err != nil {
		t.Fatal(err)
	}
	if target.State != nil {
		t.Errorf("State = %v, want nil for undefined state", target.State)
	}
}

func TestStateKinds(t *testing.T) {
	type stateArgs struct {
		Count  float64
		Seen   bool
		Filter map[string]any
	}
	schema := MustSchema[stateArgs](
		State("count", Number, Default(0.0)),
		State("seen", Boolean, Default(false)),
		State("filter", Structured, Any()),
	)
	p := routepath.MustParse("/")

	in := stateArgs{Count: 2, Seen: true, Filter: map[string]any{"a": 1}}
	target, err := schema.EncodePattern(p, in)
	if err != nil {
		t.Fatal(err)
	}
	if target.Path != "/" {
		t.Errorf("Path = %q, state must not reach the URL", target.Path)
	}
	if target.State["count"] != 2.0 || target.State["seen"] != true {
		t.Errorf("State = %v", target.State)
	}

	snap, err := SnapshotFromTarget(p, target)
	if err != nil {
		t.Fatal(err)
	}
	got, err := schema.Decode(snap)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, in) {
		t.Errorf("Decode = %+v, want %+v", got, in)
	}
}

func TestDecodeInterfaceMap(t *testing.T) {
	type errorArgs map[string]error
	failure := errors.New("failed")
	schema := MustSchema[errorArgs](
		Query("ok", String, func(v any, ok bool) (any, error) { return failure, nil }),
		Query("bad", String, Any()),
	)

	got, err := schema.Decode(Snapshot{Query: "ok=1"})
	if err != nil {
		t.Fatal(err)
	}
	if got["ok"] != failure || got["bad"] != nil {
		t.Errorf("Decode = %v", got)
	}

	_, err = schema.Decode(Snapshot{Query: "ok=1&bad=x"})
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("Decode(bad=x) error = %v, want ErrTypeMismatch", err)
	}
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "bad" {
		t.Errorf("error = %#v, want field bad", err)
	}
}

func TestDecodeValues(t *testing.T) {
	schema := MustSchema[Values](
		Path("id", Number, Int()),
		Query("q", String, Optional[string]()),
	)
	got, err := schema.Decode(Snapshot{Params: map[string]string{"id": "12"}})
	if err != nil {
		t.Fatal(err)
	}
	if got["id"] != 12 {
		t.Errorf("id = %#v, want 12", got["id"])
	}
	if q, ok := got["q"].(*string); !ok || q != nil {
		t.Errorf("q = %#v, want nil *string", got["q"])
	}

	target, err := schema.Encode("/n/:id", got)
	if err != nil {
		t.Fatal(err)
	}
	if target.Path != "/n/12" {
		t.Errorf("Path = %q, want /n/12", target.Path)
	}
}

func TestDecodeValidationError(t *testing.T) {
	_, err := userSchema.Decode(Snapshot{})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Decode() error = %v, want ErrValidation", err)
	}
	if !errors.Is(err, ErrRequired) {
		t.Errorf("Decode() error = %v, want to wrap ErrRequired", err)
	}
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "id" || fe.Source != SourcePath {
		t.Errorf("Decode() error = %#v", err)
	}
	coded := fe.Coded()
	if coded.Code != CodeValidation || coded.Field != "id" {
		t.Errorf("Coded() = %+v", coded)
	}
}

func TestDecodeTypeMismatch(t *testing.T) {
	type countArgs struct {
		Count int
	}
	schema := MustSchema[countArgs](Query("count", String, Any()))
	_, err := schema.Decode(Snapshot{Query: "count=x"})
	if !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Decode() error = %v, want ErrTypeMismatch", err)
	}
}

func TestEncodeErrors(t *testing.T) {
	type optArgs struct {
		ID *string
	}
	schema := MustSchema[optArgs](Path("id", String, Optional[string]()))
	_, err := schema.Encode("/x/:id", optArgs{})
	if !errors.Is(err, ErrMissingPath) {
		t.Errorf("Encode(nil path) error = %v, want ErrMissingPath", err)
	}

	empty := ""
	_, err = schema.Encode("/x/:id", optArgs{ID: &empty})
	if !errors.Is(err, ErrMissingPath) {
		t.Errorf("Encode(empty path) error = %v, want ErrMissingPath", err)
	}

	id := "a b"
	target, err := schema.Encode("/x/:id", optArgs{ID: &id})
	if err != nil {
		t.Fatal(err)
	}
	if target.Path != "/x/a%20b" {
		t.Errorf("Path = %q", target.Path)
	}

	type badArgs struct {
		N string
	}
	bad := MustSchema[badArgs](Query("n", Number, Any()))
	_, err = bad.Encode("/", badArgs{N: "x"})
	if !errors.Is(err, ErrUnencodable) {
		t.Errorf("Encode(string as number) error = %v, want ErrUnencodable", err)
	}

	if _, err := schema.Encode("no-slash", optArgs{ID: &id}); !errors.Is(err, routepath.ErrInvalidPattern) {
		t.Errorf("Encode(bad pattern) error = %v", err)
	}
}

func TestEncodeValues(t *testing.T) {
	tests := []struct {
		name string
		vals map[string]any
		want string
	}{
		{"only path", map[string]any{"id": "7"}, "/users/7"},
		{"nil is absent", map[string]any{"id": "7", "tab": nil, "draft": nil}, "/users/7"},
		{"given values", map[string]any{"id": "7", "page": 1.0, "anchor": "top"}, "/users/7?page=1#top"},
		{"default value given", map[string]any{"id": "7", "tab": "overview"}, "/users/7?tab=overview"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := userSchema.EncodeValues(userPattern, tt.vals)
			if err != nil {
				t.Fatal(err)
			}
			if target.Path != tt.want {
				t.Errorf("Path = %q, want %q", target.Path, tt.want)
			}
		})
	}

	target, err := userSchema.EncodeValues(userPattern, map[string]any{"id": "7", "from": "nav"})
	if err != nil {
		t.Fatal(err)
	}
	if target.Path != "/users/7" || target.State["from"] != "nav" {
		t.Errorf("EncodeValues(state) = %+v", target)
	}

	if _, err := userSchema.EncodeValues(userPattern, map[string]any{"tab": "x"}); !errors.Is(err, ErrRequired) {
		t.Errorf("EncodeValues(no id) error = %v, want ErrRequired", err)
	}
}

func TestBind(t *testing.T) {
	got, err := userSchema.Bind(map[string]any{"id": "9", "page": 3.0, "draft": true, "from": nil})
	if err != nil {
		t.Fatal(err)
	}
	want := userArgs{ID: "9", Tab: "overview", Page: 3, Draft: true}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Bind() = %+v, want %+v", got, want)
	}

	if _, err := userSchema.Bind(map[string]any{"page": 2.0}); !errors.Is(err, ErrRequired) {
		t.Errorf("Bind(no id) error = %v, want ErrRequired", err)
	}
}
