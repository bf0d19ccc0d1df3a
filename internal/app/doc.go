// Package app wires shiftboard together and owns its lifecycle.
//
// New builds every component from a loaded configuration: the schedule
// source and service, the preference store, the push hub, the optional
// scheduled refresher and file watcher, and the chi router. Start performs
// the first load; a failed first load is reported by the page and the
// readiness probe rather than aborting startup. Run serves until its context
// is cancelled and then shuts down gracefully.
//
//	application, err := app.NewApplication("")
//	if err != nil {
//	    return err
//	}
//	return application.Run(ctx)
package app
