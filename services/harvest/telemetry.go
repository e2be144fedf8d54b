package harvest

import "gradharvest/lib/telemetry"

var tracer = telemetry.Tracer("gradharvest.services.harvest")
