// Package commands implements the airoi command line: identity management,
// the contact registry, and the listen/send messaging commands.
package commands
