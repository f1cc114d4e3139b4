// Package match resolves display names to resource ids of the external
// game-data export.
//
// Resolution tries an exact literal name, then the normalized name, then a
// small explicit alias table. There is no edit distance search.
package match
