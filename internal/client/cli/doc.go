// Package cli provides the interactive marketplace command-line client.
//
// App ties the session store, the domain services and the live feed to a
// read-eval-print loop. Commands are grouped by audience:
//   - account: register, login, logout, me, profile
//   - buyers and sellers: list, filter, refresh, show, bid, mine, mybids,
//     create, cancel, complete, categories, notifications
//   - admins: users, approve-user, reject-user, approve-listing,
//     addcategory, togglecategory, deletecategory, stats
//
// Realtime notifications collected by the feed are printed before each
// prompt. The REPL is started via App.Run(ctx), which blocks until the user
// exits or stdin is closed.
package cli
