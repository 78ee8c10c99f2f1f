/*
Package escrow implements the escrow ledger of a property sale.

A sale involves four parties. The seller, the inspector and the lender are
fixed for the whole chain and read from the genesis configuration. The
buyer is chosen per listing.

The seller lists an asset: the asset moves from the seller into the
custody of the ledger. The buyer deposits earnest money into the custody
account, the inspector records the inspection result and every party
records its approval. Once the inspection passed, the buyer, the seller
and the lender approved and custody holds at least the purchase price,
the seller can finalize the sale. The price is paid to the seller and the
asset goes to the buyer, both or nothing.

Either the buyer or the seller may cancel a listed sale. The deposited
earnest goes back to the buyer unless the inspection passed, in which case
it is forfeited to the seller. The asset returns to the seller.

Custody is a single account shared by all listings. Anyone can send value
to it, for example a lender funding the remainder of the price.

Finalized and cancelled listings are kept for reference. An asset can be
listed only once.
*/
package escrow
