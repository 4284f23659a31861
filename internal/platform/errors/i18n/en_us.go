package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeUniverseInvalidDimensions = "UNIVERSE_INVALID_DIMENSIONS"
	CodeUniverseDimensionOverflow = "UNIVERSE_DIMENSION_OVERFLOW"
	CodeUniverseCorrupt           = "UNIVERSE_CORRUPT"
	CodeUniverseIDInvalid         = "UNIVERSE_ID_INVALID"
	CodeCallerMissing             = "CALLER_MISSING"
	CodeNoneValue                 = "NONE_VALUE"
	CodeStorageOverflow           = "STORAGE_OVERFLOW"
	CodeNotFound                  = "NOT_FOUND"
	CodeFilterInvalid             = "FILTER_INVALID"
	CodePageTokenInvalid          = "PAGE_TOKEN_INVALID"
)

var enUSCatalog = &Catalog{
	locale: "en-US",
	messages: map[Code]string{
		// Universe errors
		CodeUniverseInvalidDimensions: "Universe width and height must be greater than zero",
		CodeUniverseDimensionOverflow: "A {{.Width}}x{{.Height}} universe is too large",
		CodeUniverseCorrupt:           "Stored universe is corrupt",
		CodeUniverseIDInvalid:         "Universe ID is not valid",

		// Caller errors
		CodeCallerMissing: "Caller identity is required",

		// Counter errors
		CodeNoneValue:       "No value has been stored yet",
		CodeStorageOverflow: "Stored value cannot be incremented any further",

		// Storage errors
		CodeNotFound: "The requested resource was not found",

		// Query errors
		CodeFilterInvalid:    "Filter expression is not valid",
		CodePageTokenInvalid: "Page token is not valid",
	},
}
