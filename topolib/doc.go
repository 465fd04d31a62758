// This package provides a set of structs and functions which are used
// to attribute given IP addresses: where they are, who owns them, are
// they proxies.
//
// topolib is core of the project. You can treat the rest of the
// application as an _example_ on how to use this library: how to load
// datasets, how to pass parameters from HTTP requests, how to generate
// responses.
//
// Resolver is a main entity of the topolib. It holds a list of
// datasets and a per-field precedence. For each address it queries all
// datasets which support its family and takes each field from the
// first dataset in precedence order which has it. Datasets which won
// at least one field are credited in Sources.
//
// Datasets are either RangeTables (sorted closed ranges of address
// ordinals, usually built from CSV files by csvdb package) or adapters
// over binary databases from providers package.
package topolib
