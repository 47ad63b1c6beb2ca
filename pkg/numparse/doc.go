// Package numparse converts the textual numeric literals found in layout
// descriptions into byte counts.
//
// Accepted forms, matched case-insensitively after trimming whitespace:
//
//	0b1010     binary
//	0x100000   hexadecimal
//	0755       octal (leading zero followed by more digits)
//	true/false 1 and 0
//	512k 512kb decimal times 1024
//	4m 4mb     decimal times 1024*1024
//	4096       decimal
//
// Every failure is an errors.ErrParse error that wraps the strconv cause,
// so callers can test for strconv.ErrRange or strconv.ErrSyntax.
package numparse
