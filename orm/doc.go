/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
Each bucket stores one Model type, keyed by a primary key, and may
maintain any number of secondary indexes and an id sequence.

Buckets register themselves with the query router, so every stored
model is available over ABCI queries without additional code.
*/
package orm
