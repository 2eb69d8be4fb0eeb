// Package isomap resolves ISO country and language codes embedded in movie
// records to human-readable display names.
//
// Raw fields arrive either as JSON-ish blobs carrying iso_3166_1/iso_639_1
// codes alongside verbatim names, or as delimited plain text. Resolution
// goes through the Resolver interface so an authoritative source (the CLDR
// data behind golang.org/x/text) can be layered over a small fixed table;
// the mapper itself never fails, even with no resolver at all.
package isomap
