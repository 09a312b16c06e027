// Package compat resolves a specification short name to its MDN
// browser-compatibility dataset and normalizes the per-browser support
// records found there.
//
// Resolution is two-staged: the global spec map (SPECMAP.json) translates
// "<w3c base><shortName>/" into a dataset file name, and the dataset maps
// document anchor ids to the features documented at that anchor. Both
// resources are fetched through a ResourceFetcher, normally a *cache.Cache.
//
// Support records come from a third-party source without a schema
// guarantee. Every shape this package does not recognize decodes to
// KindMalformed and normalizes to StatusUnknown instead of failing.
package compat
