// Package layout defines firmware layout descriptions: an ordered list of
// named components, each with a source file and a reserved region given by
// a size and an offset.
//
// The canonical serialization is a JSON array of single-key objects:
//
//	[
//	    {
//	        "bootstrap": {
//	            "path": "bootstrap.bin",
//	            "size": "0x100000",
//	            "offset": "0x0"
//	        }
//	    }
//	]
//
// Size and offset stay literals here (see Value); they are only resolved to
// byte counts when a layout is checked by the engine. The same structure can
// be stored as YAML, TOML or XML, chosen by file extension.
package layout
