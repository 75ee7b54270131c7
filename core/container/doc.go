// Package container is a small explicit dependency registry.
//
// A Container is built once in main and passed to whatever needs it:
//
//	c := container.New()
//	c.Bind("db", func() (any, error) { return pg.Connect(ctx, cfg.Postgres) })
//	c.Bind("issues", func() (any, error) {
//		pool, err := container.Get[*pgxpool.Pool](c, "db")
//		if err != nil {
//			return nil, err
//		}
//		return issue.NewService(pg.New(pool)), nil
//	})
//
//	svc := container.MustGet[*issue.Service](c, "issues")
//
// Values are singletons per container. Pass forceNew to Resolve for a fresh
// instance that is not memoized.
package container
