// Package agent implements the automated-participant core: the Agent entity
// and its lifecycle, the strategy registry of agent types, the activation
// gate that decides whether an agent reacts to an event, and the response
// pipeline that turns agent-type output into message drafts.
//
// The package performs no I/O of its own. Persistence, scheduling, transport
// and model invocation are collaborators injected through small interfaces;
// the registry of agent types is constructor-injected so no global mutable
// state exists.
package agent
