// Package capsolver implements a client for the CapSolver task API.
//
// # Features
//
//   - Typed, validated task payloads for every supported challenge family
//   - Single choke point for request/response envelope classification
//   - Bounded, cancellable polling for task results
//   - Typed solution shapes decoded once at the boundary
//
// # Usage
//
//	s, err := capsolver.New(capsolver.Config{APIKey: key})
//	created, err := s.Token().ReCaptchaV2(ctx, capsolver.ReCaptchaV2{
//		Kind:       capsolver.KindReCaptchaV2ProxyLess,
//		WebsiteURL: "https://example.com",
//		WebsiteKey: "site-key",
//	})
//	sol, err := capsolver.GetTaskResult[capsolver.TokenSolution](ctx, s, created.TaskID)
//
// # Errors
//
// Every operation returns one of *ValidationError, *TransportError,
// *RemoteError, *DecodeError, *MalformedInputError or *TimeoutError.
// Validation always happens before any network call.
//
// CreateTaskRaw bypasses payload validation entirely. It is meant for
// advanced callers who build task documents themselves and accept that the
// service is the only validator.
package capsolver
