/*
Package x contains the extensions of the estate ledger.

Extensions implement common functionality (Handler, Decorator,
Authenticator) and are combined together in cmd/estated to construct
the application. cash moves value between accounts, registry keeps the
ownership of assets and escrow drives a property sale between the seller,
buyer, inspector and lender. sigs authenticates transactions and utils
holds the decorators shared by all of them.

Note that wire types in exported code will be prefixed by the package, so
follow standard go naming conventions and avoid stutter. Use eg.
`escrow.ListMsg` in place of `escrow.EscrowListMsg`.
*/
package x
