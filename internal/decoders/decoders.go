// Package decoders imports all field-decoder packages to trigger their init()
// registration. Import this package for side effects only.
package decoders

import (
	// Import all decoder packages to register them with the registry.
	_ "ais_parser/internal/decoders/basestation"
	_ "ais_parser/internal/decoders/classb"
	_ "ais_parser/internal/decoders/position"
	_ "ais_parser/internal/decoders/shipstatic"
	_ "ais_parser/internal/decoders/staticdata"
)
