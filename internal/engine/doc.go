// Package engine is the entry point of the type compatibility and
// transformation engine. It owns both caches, the transformation registry
// and the definition file loader, and exposes the operations used by the
// HTTP adapter and the CLI.
//
// Lifecycle:
//
//	eng, err := engine.New(cfg, engine.WithLogger(logger))
//	err = eng.Start(ctx)       // load definition files, start sweeps and watcher
//	defer eng.Shutdown(ctx)    // stop sweeps and watcher, close the store
package engine
