package router

import (
	"context"
	"errors"
	"testing"

	"github.com/vango-dev/typedroute/pkg/args"
)

func testCtx(trigger Trigger) *Ctx {
	return NewCtx(context.Background(), nil, args.Snapshot{}, trigger, nil)
}

func TestMiddlewareFuncHandle(t *testing.T) {
	called := false
	mw := MiddlewareFunc(func(ctx *Ctx, next func() error) error {
		called = true
		return next()
	})

	err := mw.Handle(nil, func() error { return nil })
	if err != nil {
		t.Errorf("Handle() error = %v", err)
	}
	if !called {
		t.Error("middleware was not called")
	}
}

func TestComposeMiddlewareEmpty(t *testing.T) {
	called := false
	err := ComposeMiddleware(nil, nil, func() error {
		called = true
		return nil
	})
	if err != nil {
		t.Errorf("ComposeMiddleware() error = %v", err)
	}
	if !called {
		t.Error("handler was not called")
	}
}

func TestComposeMiddlewareOrder(t *testing.T) {
	var order []string
	record := func(name string) Middleware {
		return MiddlewareFunc(func(ctx *Ctx, next func() error) error {
			order = append(order, name+":before")
			err := next()
			order = append(order, name+":after")
			return err
		})
	}

	err := ComposeMiddleware(testCtx(TriggerRequest), []Middleware{record("a"), record("b")}, func() error {
		order = append(order, "handler")
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"a:before", "b:before", "handler", "b:after", "a:after"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestComposeMiddlewareError(t *testing.T) {
	boom := errors.New("boom")
	handlerCalled := false
	stop := MiddlewareFunc(func(ctx *Ctx, next func() error) error {
		return boom
	})

	err := ComposeMiddleware(testCtx(TriggerRequest), []Middleware{stop}, func() error {
		handlerCalled = true
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want boom", err)
	}
	if handlerCalled {
		t.Error("handler should not run after a failing middleware")
	}
}

func TestChain(t *testing.T) {
	count := 0
	inc := MiddlewareFunc(func(ctx *Ctx, next func() error) error {
		count++
		return next()
	})

	err := Chain(inc, inc, inc).Handle(testCtx(TriggerRequest), func() error { return nil })
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestSkipAndOnly(t *testing.T) {
	ran := false
	mw := MiddlewareFunc(func(ctx *Ctx, next func() error) error {
		ran = true
		return next()
	})
	onLocation := OnTrigger(TriggerLocation)

	tests := []struct {
		name    string
		mw      Middleware
		trigger Trigger
		wantRan bool
	}{
		{"skip matches", Skip(onLocation, mw), TriggerLocation, false},
		{"skip misses", Skip(onLocation, mw), TriggerRequest, true},
		{"only matches", Only(onLocation, mw), TriggerLocation, true},
		{"only misses", Only(onLocation, mw), TriggerNavigate, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ran = false
			nextCalled := false
			err := tt.mw.Handle(testCtx(tt.trigger), func() error {
				nextCalled = true
				return nil
			})
			if err != nil {
				t.Fatal(err)
			}
			if ran != tt.wantRan {
				t.Errorf("ran = %v, want %v", ran, tt.wantRan)
			}
			if !nextCalled {
				t.Error("next was not called")
			}
		})
	}
}

func TestCtxValues(t *testing.T) {
	c := testCtx(TriggerNavigate)
	if c.Get("missing") != nil {
		t.Error("Get(missing) != nil")
	}
	c.Set("k", 1)
	if c.Get("k") != 1 {
		t.Errorf("Get(k) = %v", c.Get("k"))
	}
	if c.Trigger().String() != "navigate" {
		t.Errorf("Trigger() = %s", c.Trigger())
	}
	if c.Logger() == nil || c.Context() == nil {
		t.Error("nil logger or context")
	}

	type key struct{}
	c.SetContext(context.WithValue(c.Context(), key{}, "v"))
	if c.Context().Value(key{}) != "v" {
		t.Error("SetContext did not replace the context")
	}
}
