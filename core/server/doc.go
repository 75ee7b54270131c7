// Package server runs an http.Handler with timeouts and graceful shutdown.
//
// Run is shaped for errgroup: it serves until the context is cancelled and
// then drains in-flight requests within the shutdown timeout.
//
//	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	g.Go(srv.Run(ctx, r))
package server
