/*

Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each package keeps a single configuration object stored under the
"_c:<package>" key. The object is loaded from the "conf" section of the
genesis file and never changes afterwards, which is how the escrow party
roles are kept immutable for the life of the chain.

*/
package gconf
