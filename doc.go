// Package flexquery converts Interactive Brokers Flex Query reports into
// Parqet CSV imports.
//
// A report is read from two sections that overlap:
//   - Open Positions, reported lot by lot, give the acquisition of every
//     position still held, including those bought before the report period.
//   - Statement of Funds gives every other movement: trades, dividends,
//     interest, deposits and withdrawals.
//
// The PositionExtractor turns lots into Buy transactions and records the
// transaction IDs they come from in a Seen set. The FundsExtractor then maps
// the activity code of each funds line to a transaction kind, skipping the
// lines already covered by a lot, so that no event is imported twice.
//
// Transactions are a closed set of types (Buy, Sell, Dividend, Interest,
// TransferIn, TransferOut), each holding only the fields that make sense for
// its kind. Format splits them into the two tables Parqet imports: one for
// securities and one for the cash holding.
//
// This package serves as the foundational logic for the `flexquery`
// command-line tool.
package flexquery
