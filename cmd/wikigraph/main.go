// Package main provides the entry point for the wikigraph CLI.
//
// wikigraph crawls a MediaWiki category tree starting from a root category
// and reconstructs it as a directed graph, caching every API response on
// disk so repeated crawls cost almost no network traffic.
//
// Usage:
//
//	wikigraph crawl "Category:Certosa (Bologna)"
//	wikigraph crawl --edgelist certosa_edge.tsv "Category:Certosa (Bologna)"
//
// See --help for all available options.
package main

// main is the entry point for wikigraph.
func main() {
	Execute()
}
