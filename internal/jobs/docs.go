// Package jobs provides scheduled background tasks for the order pipeline.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic maintenance the request path cannot guarantee.
//
// # Available Jobs
//
// 1. ConversationSweepJob - Runs every five minutes to drop chat flows idle for over thirty minutes
// 2. MirrorReconcileJob - Runs hourly to delete spreadsheet rows whose orders are not in the store
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required dependencies
//	jobManager := jobs.NewJobManager(engine, reconcileHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - The sweep job cannot fail; it only logs when it removed something
// - The reconcile job logs every failure, the next hourly run retries
// - Failed job starts will stop any already running jobs
package jobs
