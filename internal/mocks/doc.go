// Package mocks provides testify mocks for the card repositories, the
// issuing platform, the card cache and the card service.
package mocks
