// This package provides a set of structs and functions which are used
// to detect a public IP address of the host and to geolocate it.
//
// querylib is a core of the ipquery project. The rest of the
// application is a set of implementations (providers, databases) and an
// example of how to wire them: how to build HTTP clients, how to pass
// configuration, how to log failures.
//
// Resolver is a main entity of the querylib. It walks an ordered chain
// of providers until one of them returns an IP address and then,
// if asked, augments this answer with data from a geo database.
//
// Every failure of a provider or a database is soft: it is reported to
// a Logger and resolver moves on. The only hard failure is
// ErrNoIPAddress which means that nobody was able to tell an IP address
// of the host.
package querylib
