// Package normalisers holds implementations of the driven.Normaliser port.
// The pagetext normaliser cleans text extracted from PDF pages.
package normalisers
