/*
Package weave defines all common interfaces used to weave together the
extensions of the estate application: stores, handlers, decorators,
transactions, messages and the addresses used to identify the parties of a
property sale.

Concrete implementations live in subpackages. The store package provides
the in-memory and persistent key value stores, orm builds typed buckets on
top of them, app glues handlers into an ABCI application and the x/...
extensions implement the business logic (cash, registry and escrow).

We pass context through context.Context between app, decorators and
handlers. For every value XYZ of type T that we want to support in the
context there are two functions:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)

WithXYZ panics if the value was previously set to avoid lower-level
modules overwriting it (eg. height, chain id).
*/
package weave
