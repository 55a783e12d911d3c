// Package contact manages the contact registry: adding peers from their
// advertised signing key, removing and listing them.
package contact
