// Package router binds typed argument schemas to components and mounts them
// on chi.
//
// A route pairs a path pattern with an argument schema and a component:
//
//	var userRoute = router.Must(router.Config[UserArgs]{
//	    Path:      "/users/:id",
//	    Args:      userSchema,
//	    Component: func(a UserArgs) element.Component { return userPage{a} },
//	})
//
// Rendering decodes the current location into UserArgs and calls the
// component with the result. Navigation goes the other way:
//
//	nav := userRoute.Actions(history)
//	href, err := nav.Href(UserArgs{ID: "42", Tab: "posts"})
//	err = nav.Push(UserArgs{ID: "42"})
//
// # Mounting
//
//	r := chi.NewRouter()
//	table, err := router.Mount(r, userRoute, homeRoute)
//
// Mount registers a GET handler per route and returns a Table, which live
// sessions use to resolve hrefs and re-render on location changes.
//
// # Middleware
//
// Middleware wraps every render, table-wide (Table.Use) or per route
// (Config.Middleware):
//
//	table.Use(router.MiddlewareFunc(func(ctx *router.Ctx, next func() error) error {
//	    start := time.Now()
//	    err := next()
//	    ctx.Logger().Info("render", "took", time.Since(start), "error", err)
//	    return err
//	}))
package router
