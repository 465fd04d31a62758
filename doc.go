// Ipattrib is a service which attributes IP addresses: for a given
// address it returns a country, city, coordinates, network owner and
// some other facts which are known about it.
//
// Data comes from a set of local databases. These are either delimited
// text files with address ranges (IP2Location LITE CSV, DB-IP CSV and
// similar) or binary databases: MaxMind DB, IP2Location BIN, SypexGeo
// and ip2region. Each database knows only a part of facts, so results
// are merged field by field according to a configured precedence.
//
// Tool itself is organized into several packages:
//
// Topolib
//
// topolib is a main package of the application. It contains address
// normalization, range tables, Resolver which merges results and
// http.Handler with a public API.
//
// Csvdb
//
// csvdb loads delimited text files into range tables.
//
// Providers
//
// providers has adapters for binary databases.
//
// Admission
//
// admission is a rate limiter which is used by HTTP middleware.
//
// Ipattrib
//
// A main package wires everything together. It reads a config file,
// loads datasets and starts HTTP server with Prometheus metrics.
package main
