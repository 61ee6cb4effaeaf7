/*
Package scanner resolves camera scans into payment intents or identity
payloads.

A Session runs the whole pipeline for one scan:

	permission gate -> capture start -> decoded strings
	    -> debounce latch -> classify -> outcome

Usage:

	s := scanner.NewSession(scanner.Config{Mode: scan.ModePayment}, scanner.Deps{
	    Gate:      permission.NewGate(host),
	    Hardware:  camera,
	    Validator: validation.NewHexValidator(),
	})
	s.Open(ctx)
	result, err := s.Wait(ctx)

Outcomes:

Exactly one outcome is delivered per session. A payment or identity result
ends the session; an invalid payload only shows the "try again" notice and
reopens the latch after Config.RetryDelay, while the camera keeps running.
Permission and capture errors end the session, as does Cancel. In every case
the capture device is released before Closed is signalled.
*/
package scanner
