// Package routetest provides testing helpers for typed routes.
//
// The helpers resolve hrefs the way a server does, then decode or render
// them, failing the test on any unexpected error.
//
// # Decoding
//
//	func TestUserRoute(t *testing.T) {
//	    got := routetest.Decode(t, userRoute, "/users/7?tab=posts", nil)
//	    if got.ID != 7 {
//	        t.Errorf("ID = %d", got.ID)
//	    }
//	    fe := routetest.DecodeError(t, userRoute, "/users/abc", nil)
//	    if fe.Field != "id" {
//	        t.Errorf("field = %q", fe.Field)
//	    }
//	}
//
// # Round trips
//
// RoundTrip encodes a value, decodes the resulting target and compares:
//
//	routetest.RoundTrip(t, userRoute, UserArgs{ID: 7, Tab: "posts"})
//
// # Render Assertions
//
//	html := routetest.Render(t, table, "/users/7", nil)
//	routetest.ExpectContains(t, html, "User 7")
//	routetest.ExpectAttribute(t, html, "data-arg", "id")
package routetest
