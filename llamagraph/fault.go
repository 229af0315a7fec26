package llamagraph

import "github.com/katalvlaran/llama-csr/core"

// Fault is the facade's name for the invariant-violation/I-O panic value:
// a thin alias over core.Fault so callers that recover() at the top of a
// goroutine can type-assert against the name this package exposes,
// without the rest of the module needing to import this package back.
type Fault = core.Fault

// raise logs detail through g's logger and then panics with a *Fault, a
// log-and-abort rather than a log-and-continue. Deliberately not built on
// zerolog's own Panic()/Msg() pairing: that combination panics with the
// formatted log line itself (a plain string) before this function's
// core.Raise ever runs, which would hand a recovering caller a string
// instead of the structured *Fault it expects. core.Raise stays the single
// panic call site; the logger only records the diagnostic first.
func (g *Graph) raise(code core.FaultCode, detail string, cause error) {
	g.log.Error().Str("fault_code", string(code)).Err(cause).Msg(detail)
	core.Raise(code, detail, cause)
}
