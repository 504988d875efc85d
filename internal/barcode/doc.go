// Package barcode adapts the external codec libraries to barcli's format and
// hint types.
//
// Decoding runs on gozxing with goqr as a second opinion for QR symbols.
// Encoding uses the gozxing writers where they exist and boombuler/barcode
// for Aztec, PDF417 and Code 93. Callers see one Backend and never touch the
// libraries directly.
package barcode
