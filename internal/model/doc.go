// Package model defines the core data structures shared across wikigraph.
//
// The types here are deliberately plain: they carry crawl data between the
// mediawiki client, the crawler, the report writers, and the run database
// without behavior beyond small helpers (title normalization, category
// detection, counter updates). Keeping them dependency-light avoids import
// cycles between the packages that produce and consume them.
package model
