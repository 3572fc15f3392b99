package model

// Bin is a sensor-tracked container. Fill level is bounded to [0,100] and
// only admins may mutate bin state.
//
// Fields:
//  ID        – primary key identifier.
//  Location  – human-readable placement ("Place des Martyrs").
//  Latitude  – WGS84 latitude.
//  Longitude – WGS84 longitude.
//  FillLevel – 0..100 percent.
//  Status    – optimal, warning or critical.
//  WasteType – general, plastic, paper, glass, ...
type Bin struct {
    ID        uint64  // bins.id
    Location  string  // bins.location
    Latitude  float64 // bins.latitude
    Longitude float64 // bins.longitude
    FillLevel int     // bins.fill_level
    Status    string  // bins.status
    WasteType string  // bins.waste_type
}
