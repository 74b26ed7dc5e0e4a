// ipquery is a command line tool which detects a public IP address of
// the host and where it belongs to: country and autonomous system.
//
// Idea is simple: there are plenty of web services which tell you who
// you are. Some of them are flaky, some of them are rate limited, some
// of them give only an IP address. ipquery asks them one by one and
// fills missing data from local MaxMind GeoLite2 databases.
//
// Tool itself is organized into 3 logical parts:
//
// # Querylib
//
// querylib is a core package which contains a Resolver and all
// interfaces. Resolver has an ordered chain of providers and an
// optional geo database.
//
// # Providers
//
// This package has implementations of web providers, MaxMind geo
// database and a downloader of GeoLite2 databases.
//
// # Ipquery
//
// A public entrypoint which wires everything together. A main package
// itself is a CLI on top of it.
//
// # Commands
//
//	ipquery [query] [--no-geo] [--concurrent] [--provider=ipsb ...]
//	ipquery update-db --license-key=KEY [--every=24h]
//
// Both commands accept hjson config with -c flag.
package main
