// Package cli provides the interactive signup client.
//
// It wires configuration, the local session database, the activities API
// client and the controller, then runs a REPL that stands in for the web
// page: the activity list, the signup form, the removal controls and the
// teacher login dialog.
//
// Commands:
//   - list | l              reload and show activities
//   - signup                register a student (teacher only)
//   - unregister [N.M]      remove a participant, by the [x N.M] control
//     shown in the list or by prompting for activity and email
//   - admin | login         open the teacher login dialog
//   - logout                end the teacher session
//   - help, exit | quit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
