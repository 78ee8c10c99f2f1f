/*
Package cash keeps the balances of all accounts in the smallest currency
unit and moves value between them.

There is no logic in the currency itself, except that the balance of an
account may not go below zero or overflow. Any extension can move value
through the Controller, users can send value with SendMsg.
*/
package cash
