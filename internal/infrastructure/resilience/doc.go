/*
Package resilience provides the circuit breaker used by the procintf client.

A Breaker counts failures per generation and stops calling a server that
keeps failing at the transport level. Callers decide what counts as a
failure through Settings.IsFailure, so answers such as a rejected write do
not open the circuit. Calls abandoned because their context ended are not
counted at all.

# Usage

	breaker := resilience.New("procintf", resilience.Settings{
		Timeout: 10 * time.Second,
		ReadyToTrip: func(c resilience.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
	})

	err := breaker.Execute(ctx, func(ctx context.Context) error {
		return call(ctx)
	})

# States

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                       [failure]
	                                           v
	                                          Open
*/
package resilience
