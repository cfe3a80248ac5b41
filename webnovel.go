// Package webnovel turns a serialized web work (a listing page plus one page
// per chapter) into a single packaged document.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency or concern (e.g., html/, http/, epub/).
package webnovel
