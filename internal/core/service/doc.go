// Package service provides the progress registry for the awareness service.
//
// ProgressService drives a session through start → progress → complete:
//
//   - Start creates a session at step 0 and mints the first token
//   - AdvanceProgress checks the presented token, the session and the step
//     law, then records the step and mints a replacement token
//   - Complete checks the token has reached the completion threshold, mints
//     the completion token and removes the session
//   - Status reports stored progress without consuming a token
//   - Sweep removes idle sessions; Sweeper runs it periodically
//
// The token's step, not the stored one, decides whether a progression is
// legal, so clients must always present the newest token they were given.
package service
