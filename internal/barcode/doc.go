// Package barcode defines the data model shared between callers and the
// decode engine: symbology formats, decode options, results and their
// geometry, and the small integer enumerations that cross the engine
// boundary. The enum ordinals and Format bit positions are a wire contract;
// contract.go provides a startup self-check against an engine's view of it.
package barcode
