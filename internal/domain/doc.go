// Package domain holds the data model, the error taxonomy and the small set
// of interfaces shared by stores, services and the CLI.
package domain
