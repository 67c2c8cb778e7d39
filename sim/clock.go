package sim

import "time"

// Clock supplies the wall-clock time used to default entry and close
// timestamps. Injecting it keeps the ledger deterministic under test.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC().Truncate(time.Minute) }
