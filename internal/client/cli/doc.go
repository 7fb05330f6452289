// Package cli implements the interactive Farmline terminal client: a REPL
// over the session store, the catalog/order/user services and the realtime
// messaging bridge.
//
// The REPL dispatches on the first token of each input line. Command
// handlers print their own errors and never abort the loop; the loop exits
// on EOF or the exit command.
package cli
