// Package metadata defines the gRPC headers of the universe service.
//
//   - AccountIDHeader carries the verified caller identity. The service
//     trusts it as given; verification happens before requests arrive.
//   - RequestIDHeader correlates logs across a call. The server generates
//     one when the client omits it and echoes it in response headers.
//   - LocaleHeader selects the language of user-facing error messages.
package metadata
