// Package loader registers the features served by the status API.
//
// A Feature names itself, says whether it should be served and mounts its routes on a
// fiber.Router. The Manager loads enabled features in registration order and stops at the
// first one that fails, so a half-mounted API never starts.
//
//	mgr := loader.NewManager(logger)
//	mgr.Register(employees.NewFeature(poller, reconciler, cfg.Sync, logger))
//	if err := mgr.LoadAll(app); err != nil {
//	    return err
//	}
package loader
