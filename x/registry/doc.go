/*
Package registry keeps track of tokenized property assets.

Every asset has a single owner and at most one approved spender. The
approved spender may transfer the asset on behalf of the owner, which is
how the escrow extension takes custody of a listed property. The
approval is cleared on every transfer.

Asset ids are allocated from a sequence, starting at 1.
*/
package registry
