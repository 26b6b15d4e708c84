// Package database persists completed crawl runs in SQLite.
//
// A run is the crawl report plus the node and edge sets of the resulting
// graph. Saved runs make two things possible: the compare command (what
// appeared or disappeared in a category tree between two crawls) and
// keeping a history of crawls without keeping the much larger response
// cache around.
//
// Node attributes (revision content) are deliberately not stored — they
// can be rebuilt from the response cache, and storing them would multiply
// the database size for data compare never looks at.
package database
