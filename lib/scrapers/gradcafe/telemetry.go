package gradcafe

import (
	"gradharvest/lib/restyutil"
	"gradharvest/lib/telemetry"
)

var tracer = telemetry.Tracer("gradharvest.lib.scrapers.gradcafe")
var restyInstrumentOutput restyutil.InstrumentOutput

func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyInstrumentOutput = out
}
