// Package cardprices maintains a price history of trading cards in a wide-format matrix:
// one row per card, one column per observation day.
//
// The core functionalities include:
//   - Snapshot Reading: decoding the batches of {name, quantity, price} written by an external
//     scraper (ReadSnapshot).
//   - Column Resolution: finding the column of a new snapshot without disturbing history,
//     under an explicit DuplicatePolicy (Resolver).
//   - Row Merging: upserting one row per card name, never overwriting a price already
//     observed (Merge).
//   - Presentation: computing up/down/neutral markers between chronologically adjacent columns
//     (Compare, Colorize) and centering the cells (Align).
//   - Persistence: storing the matrix and its presentation in an xlsx workbook
//     (DecodeMatrix, EncodeMatrix).
//
// This package serves as the foundational logic for the `cps` command-line tool. Updater
// chains all the steps for one snapshot.
package cardprices
