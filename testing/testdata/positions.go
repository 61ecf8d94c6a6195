package testdata

// Batch_mixed_1 carries one position of each accepted shape, then two bad
// elements: unequal digit groups and an unrecognized shape.
var Batch_mixed_1 = `[
  {"gridref": "NY 37297 03695"},
  {"lat": 53.537792, "lng": -2.935865},
  {"ea": 337200, "no": 503600},
  {"gridref": "NY 373 0369"},
  {"what": "is this"}
]`

// Batch_items_1 is the enveloped form of a batch body.
var Batch_items_1 = `{"items": [
  {"gridref": "TG 51409 13177"}
]}`
