// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The two controllers follow a begin/run/complete protocol: Begin and
// Complete mutate state and are cheap, Run performs the network call and
// touches no state. Event loops call Begin and Complete on their own
// thread and Run wherever they perform I/O.
//
// Services are pure Go with no external dependencies.
package services
